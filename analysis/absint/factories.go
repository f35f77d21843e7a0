package absint

import (
	"github.com/cs-au-dk/ibex/analysis/defs"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
	loc "github.com/cs-au-dk/ibex/analysis/location"
	"github.com/cs-au-dk/ibex/utils"
	"github.com/cs-au-dk/ibex/utils/tree"

	"github.com/benbjohnson/immutable"
)

// factory exposes an API for creating frames, states and location maps.
type factory struct{}

// Create retrieves a factory for abstract interpretation structures.
func Create() factory {
	return factory{}
}

// Frame creates an activation frame at the given location, with no
// locals bound and an empty operand stack.
func (factory) Frame(l defs.Loc) Frame {
	return Frame{
		loc:    l,
		locals: tree.NewTree[int, L.Value](utils.IntHasher[int]{}),
		stack:  immutable.NewList[L.Value](),
	}
}

// State creates a single-frame state with an empty heap.
func (factory) State(f Frame) State {
	return State{
		heap:   tree.NewTree[loc.Location, L.Value](loc.LocationHasher{}),
		frames: immutable.NewList[Frame]().Append(f),
	}
}
