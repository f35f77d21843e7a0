package utils

import (
	"reflect"

	"github.com/benbjohnson/immutable"
)

type (
	// Hashable is implemented by all hashable types.
	Hashable interface {
		Hash() uint32
	}

	// HashableEq is implemented by hashable types with decidable equality.
	HashableEq[T any] interface {
		Hashable
		Equal(T) bool
	}

	// hashableHasher adapts HashableEq implementations to the hasher
	// interface expected by immutable collections and patricia trees.
	hashableHasher[T HashableEq[T]] struct{}
)

func (hashableHasher[T]) Equal(a, b T) bool { return a.Equal(b) }

func (hashableHasher[T]) Hash(a T) uint32 { return a.Hash() }

// HashableHasher is a generic hasher factory for hashable and equality
// comparable entities.
func HashableHasher[T HashableEq[T]]() immutable.Hasher[T] { return hashableHasher[T]{} }

// NewImmMap creates an immutable map keyed by hashable entities.
func NewImmMap[K HashableEq[K], V any]() *immutable.Map[K, V] {
	return immutable.NewMap[K, V](HashableHasher[K]())
}

// PointerHasher hashes values by pointer identity.
type PointerHasher[T any] struct{}

func (PointerHasher[T]) Hash(v T) uint32 {
	p := reflect.ValueOf(v).Pointer()
	return uint32(p ^ (p >> 32))
}

func (PointerHasher[T]) Equal(a, b T) bool {
	return any(a) == any(b)
}

var _ immutable.Hasher[any] = PointerHasher[any]{}

// IntHasher hashes small integer keys, such as local variable slots.
type IntHasher[T ~int | ~int32 | ~uint32] struct{}

func (IntHasher[T]) Hash(v T) uint32 { return uint32(v) * 0x9e3779b9 }

func (IntHasher[T]) Equal(a, b T) bool { return a == b }

var _ immutable.Hasher[int] = IntHasher[int]{}

// HashCombine uses the C++ boost algorithm for combining multiple hash values.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}

// HashBool folds a boolean flag into a hash value.
func HashBool(seed uint32, flag bool) uint32 {
	if flag {
		return HashCombine(seed, 0x9e3779b9)
	}
	return HashCombine(seed, 0xdeadbeef)
}

// Hasher is the hashing contract shared with immutable collections: a
// 32-bit hash and decidable equality over keys. immutable.Hasher values
// satisfy it directly.
type Hasher[K any] interface {
	Hash(key K) uint32
	Equal(a, b K) bool
}
