package tree

import (
	"fmt"

	i "github.com/cs-au-dk/ibex/utils/indenter"

	"github.com/benbjohnson/immutable"
)

// Tree is a persistent key-value map implemented as a patricia tree over
// 32-bit key hashes. Updates return new trees; existing trees are never
// mutated, so values stored in one tree can be shared freely with derived
// trees. Merge and Equal skip shared subtrees, which makes repeated
// join/compare cycles on mostly-equal maps cheap.
//
// The structure follows Okasaki & Gill, "Fast Mergeable Integer Maps".
type Tree[K, V any] struct {
	hasher immutable.Hasher[K]
	root   node[K, V]
}

// NewTree constructs an empty persistent map with the given hasher.
func NewTree[K, V any](hasher immutable.Hasher[K]) Tree[K, V] {
	return Tree[K, V]{hasher, nil}
}

// Lookup returns the value bound to the key, if any.
func (tree Tree[K, V]) Lookup(key K) (V, bool) {
	// The key is hashed once up front and passed down the spine.
	return get(tree.root, tree.hasher.Hash(key), key, tree.hasher)
}

// Insert binds key to value, replacing any previous binding.
func (tree Tree[K, V]) Insert(key K, value V) Tree[K, V] {
	return tree.InsertOrMerge(key, value, nil)
}

// InsertOrMerge binds key to value, except that an existing binding prev is
// replaced by f(value, prev).
func (tree Tree[K, V]) InsertOrMerge(key K, value V, f MergeFunc[V]) Tree[K, V] {
	tree.root, _ = ins(tree.root, tree.hasher.Hash(key), key, value, tree.hasher, f)
	return tree
}

// Remove drops the binding for key if present.
func (tree Tree[K, V]) Remove(key K) Tree[K, V] {
	tree.root = del(tree.root, tree.hasher.Hash(key), key, tree.hasher)
	return tree
}

// ForEach invokes f once per binding, in unspecified order.
func (tree Tree[K, V]) ForEach(f EachFunc[K, V]) {
	if tree.root != nil {
		tree.root.each(f)
	}
}

// Merge combines two maps. A key bound in both maps ends up bound to the
// result of f on the two values. f must be commutative and idempotent.
// Shared subtrees are skipped, so merging a tree with a version of itself
// after r updates costs about O(r * (keysize + f)).
func (tree Tree[K, V]) Merge(other Tree[K, V], f MergeFunc[V]) Tree[K, V] {
	tree.root, _ = union(tree.root, other.root, tree.hasher, f)
	return tree
}

// Equal compares two maps, using f to compare values bound to the same key.
// Shared subtrees are skipped.
func (tree Tree[K, V]) Equal(other Tree[K, V], f CmpFunc[V]) bool {
	return eq(tree.root, other.root, tree.hasher, f)
}

// Size returns the number of bindings. Runs in linear time.
func (tree Tree[K, V]) Size() (res int) {
	tree.ForEach(func(_ K, _ V) {
		res++
	})
	return
}

// StringFiltered renders the bindings accepted by pred.
func (tree Tree[K, V]) StringFiltered(pred func(k K, v V) bool) string {
	buf := []func() string{}

	tree.ForEach(func(k K, v V) {
		if pred(k, v) {
			buf = append(buf, func() string {
				return fmt.Sprintf("%v ↦ %v", k, v)
			})
		}
	})

	return i.Indenter().Start("{").NestThunked(buf...).End("}")
}

func (tree Tree[K, V]) String() string {
	return tree.StringFiltered(func(_ K, _ V) bool { return true })
}
