package tree

import (
	"github.com/benbjohnson/immutable"
)

type (
	// EachFunc visits one binding.
	EachFunc[K, V any] func(key K, value V)

	// MergeFunc combines the values of a key bound in both operands of a
	// merge. It must be commutative and idempotent. The flag reports
	// whether a == b; when it is true the merge keeps the existing node
	// instead of allocating an equal copy, preserving subtree sharing for
	// later merges and comparisons.
	MergeFunc[V any] func(a, b V) (V, bool)

	// CmpFunc compares two values for equality.
	CmpFunc[V any] func(a, b V) bool

	node[K, V any] interface {
		each(EachFunc[K, V])
	}
)

// hkey is the type of hashed keys.
type hkey = uint32

type branch[K, V any] struct {
	// Common prefix of every key hash below this node.
	prefix hkey
	// Single set bit; marks the position where the left and right
	// subtrees' prefixes diverge.
	bit   hkey
	left  node[K, V]
	right node[K, V]
}

func (b *branch[K, V]) each(f EachFunc[K, V]) {
	b.left.each(f)
	b.right.each(f)
}

// match reports whether a key hash belongs under this branch.
func (b *branch[K, V]) match(key hkey) bool {
	return (key & (b.bit - 1)) == b.prefix
}

type pair[K, V any] struct {
	key   K
	value V
}

// leaf holds every binding whose key hashes to the same value. Collisions
// are kept in a short list.
type leaf[K, V any] struct {
	key    hkey
	values []pair[K, V]
}

func (l *leaf[K, V]) copy() *leaf[K, V] {
	return &leaf[K, V]{
		l.key,
		append([]pair[K, V](nil), l.values...),
	}
}

func (l *leaf[K, V]) each(f EachFunc[K, V]) {
	for _, pr := range l.values {
		f(pr.key, pr.value)
	}
}

func zeroBit(key, bit hkey) bool {
	return key&bit == 0
}

// branchingBit is the lowest bit at which two prefixes disagree.
func branchingBit(p0, p1 hkey) hkey {
	diff := p0 ^ p1
	return diff & -diff
}

// mkbr builds a branch, collapsing empty subtrees.
func mkbr[K, V any](prefix, bit hkey, left, right node[K, V]) node[K, V] {
	if left == nil {
		return right
	} else if right == nil {
		return left
	}

	return &branch[K, V]{prefix, bit, left, right}
}

// graft combines two trees with distinct prefixes p0 and p1 under a fresh
// branch at their branching bit.
func graft[K, V any](p0, p1 hkey, t0, t1 node[K, V]) node[K, V] {
	bit := branchingBit(p0, p1)
	prefix := p0 & (bit - 1)
	if zeroBit(p0, bit) {
		return &branch[K, V]{prefix, bit, t0, t1}
	}
	return &branch[K, V]{prefix, bit, t1, t0}
}

func get[K, V any](tree node[K, V], hash hkey, key K, hasher immutable.Hasher[K]) (ret V, found bool) {
	if tree == nil {
		return
	}

	switch tree := tree.(type) {
	case *leaf[K, V]:
		if tree.key == hash {
			for _, pr := range tree.values {
				if hasher.Equal(key, pr.key) {
					return pr.value, true
				}
			}
		}

		return

	case *branch[K, V]:
		rec := tree.right
		if !tree.match(hash) {
			return
		} else if zeroBit(hash, tree.bit) {
			rec = tree.left
		}

		return get(rec, hash, key, hasher)

	default:
		panic("unreachable node kind")
	}
}

// ins binds key to value below tree. With a non-nil f an existing binding
// prev becomes f(value, prev). The flag is false when the result is
// reference-equal to the input, meaning nothing changed.
func ins[K, V any](tree node[K, V], hash hkey, key K, value V, hasher immutable.Hasher[K], f MergeFunc[V]) (node[K, V], bool) {
	if tree == nil {
		return &leaf[K, V]{key: hash, values: []pair[K, V]{{key, value}}}, true
	}

	var prefix hkey
	switch tree := tree.(type) {
	case *leaf[K, V]:
		if tree.key == hash {
			for i, pr := range tree.values {
				if hasher.Equal(key, pr.key) {
					newValue := value
					if f != nil {
						var equal bool
						newValue, equal = f(value, pr.value)

						if equal {
							return tree, false
						}
					}

					lf := tree.copy()
					lf.values[i].value = newValue
					return lf, true
				}
			}

			// Hash collision; extend the leaf's collision list.
			lf := tree.copy()
			lf.values = append(lf.values, pair[K, V]{key, value})
			return lf, true
		}

		prefix = tree.key

	case *branch[K, V]:
		if tree.match(hash) {
			l, r := tree.left, tree.right
			var changed bool
			if zeroBit(hash, tree.bit) {
				l, changed = ins(l, hash, key, value, hasher, f)
			} else {
				r, changed = ins(r, hash, key, value, hasher, f)
			}
			if !changed {
				return tree, false
			}
			return &branch[K, V]{tree.prefix, tree.bit, l, r}, true
		}

		prefix = tree.prefix

	default:
		panic("unreachable node kind")
	}

	newLeaf, _ := ins(nil, hash, key, value, nil, nil)
	return graft(hash, prefix, newLeaf, tree), true
}

func del[K, V any](tree node[K, V], hash hkey, key K, hasher immutable.Hasher[K]) node[K, V] {
	if tree == nil {
		return tree
	}

	switch tree := tree.(type) {
	case *leaf[K, V]:
		if tree.key == hash {
			newLeaf := &leaf[K, V]{tree.key, nil}
			for _, pr := range tree.values {
				if !hasher.Equal(key, pr.key) {
					newLeaf.values = append(newLeaf.values, pr)
				}
			}

			if len(newLeaf.values) == 0 {
				return nil
			}

			return newLeaf
		}
	case *branch[K, V]:
		if tree.match(hash) {
			left, right := tree.left, tree.right
			if zeroBit(hash, tree.bit) {
				left = del(left, hash, key, hasher)
			} else {
				right = del(right, hash, key, hasher)
			}
			return mkbr(tree.prefix, tree.bit, left, right)
		}
	default:
		panic("unreachable node kind")
	}

	return tree
}

// union merges two trees. The flag reports that a and b were equal, in
// which case the result is a itself. Reference-equal subtrees short-circuit,
// so unions of trees that share structure cost proportional to their diff.
func union[K, V any](a, b node[K, V], hasher immutable.Hasher[K], f MergeFunc[V]) (node[K, V], bool) {
	if a == b {
		return a, true
	} else if a == nil {
		return b, false
	} else if b == nil {
		return a, false
	}

	lf, isLeaf := a.(*leaf[K, V])
	other := b
	if !isLeaf {
		lf, isLeaf = b.(*leaf[K, V])
		other = a
	}

	if isLeaf {
		originalOther := other
		for _, pr := range lf.values {
			other, _ = ins(other, lf.key, pr.key, pr.value, hasher, f)
		}

		if oLf, oIsLeaf := other.(*leaf[K, V]); oIsLeaf &&
			other == originalOther &&
			len(lf.values) == len(oLf.values) {
			// Inserting every binding of lf into the other leaf changed
			// nothing and the leaves are equally large, so they were equal
			// to begin with.
			return a, true
		}

		return other, false
	}

	s, t := a.(*branch[K, V]), b.(*branch[K, V])
	if s.bit == t.bit && s.prefix == t.prefix {
		l, leq := union(s.left, t.left, hasher, f)
		r, req := union(s.right, t.right, hasher, f)
		if leq && req {
			return s, true
		} else if l == s.left && r == s.right {
			return s, false
		} else if l == t.left && r == t.right {
			return t, false
		}

		return &branch[K, V]{s.prefix, s.bit, l, r}, false
	}

	if s.bit > t.bit {
		s, t = t, s
	}

	if s.bit < t.bit && s.match(t.prefix) {
		// t fits entirely inside one of s's subtrees.
		l, r := s.left, s.right
		if zeroBit(t.prefix, s.bit) {
			l, _ = union(l, node[K, V](t), hasher, f)
			if l == s.left {
				return s, false
			}
		} else {
			r, _ = union(r, node[K, V](t), hasher, f)
			if r == s.right {
				return s, false
			}
		}
		return &branch[K, V]{s.prefix, s.bit, l, r}, false
	}

	// Prefixes disagree entirely.
	return graft(s.prefix, t.prefix, node[K, V](s), node[K, V](t)), false
}

func eq[K, V any](a, b node[K, V], hasher immutable.Hasher[K], f CmpFunc[V]) bool {
	if a == b {
		return true
	} else if a == nil || b == nil {
		return false
	}

	switch a := a.(type) {
	case *leaf[K, V]:
		b, ok := b.(*leaf[K, V])
		if !ok || len(a.values) != len(b.values) {
			return false
		}

	FOUND:
		for _, apr := range a.values {
			for _, bpr := range b.values {
				if hasher.Equal(apr.key, bpr.key) {
					if !f(apr.value, bpr.value) {
						return false
					}

					continue FOUND
				}
			}

			// a holds a key that b does not.
			return false
		}

		return true

	case *branch[K, V]:
		b, ok := b.(*branch[K, V])
		if !ok {
			return false
		}

		return a.prefix == b.prefix && a.bit == b.bit &&
			eq(a.left, b.left, hasher, f) && eq(a.right, b.right, hasher, f)

	default:
		panic("unreachable node kind")
	}
}
