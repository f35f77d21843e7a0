package graph

import (
	"github.com/cs-au-dk/ibex/utils"
	"github.com/cs-au-dk/ibex/utils/hmap"
)

type hasherMapper[K any] struct {
	mp *hmap.Map[K, any]
}

func (m hasherMapper[K]) Get(key K) (any, bool) {
	return m.mp.GetOk(key)
}

func (m hasherMapper[K]) Set(key K, value any) {
	m.mp.Set(key, value)
}

// Creates a Graph over nodes that are not necessarily comparable, using the
// provided hasher for internal bookkeeping.
func OfHasher[K any](hasher utils.Hasher[K], edgesOf edgesOf[K]) Graph[K] {
	return Of(func() Mapper[K] {
		return hasherMapper[K]{hmap.NewMap[any](hasher)}
	}, edgesOf)
}

// Creates a Graph from an explicit adjacency list representation.
// Nodes missing from the map have no outgoing edges.
func FromMap[K comparable](edges map[K][]K) Graph[K] {
	return OfHashable(func(node K) []K {
		return edges[node]
	})
}
