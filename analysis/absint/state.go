package absint

import (
	"strings"

	"github.com/cs-au-dk/ibex/analysis/defs"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
	loc "github.com/cs-au-dk/ibex/analysis/location"
	i "github.com/cs-au-dk/ibex/utils/indenter"
	"github.com/cs-au-dk/ibex/utils/tree"

	"github.com/benbjohnson/immutable"
)

// State is the whole-program abstract state at one control point: a
// non-empty call stack of activation frames and the heap they share.
// The last frame is the active one; its location identifies the state
// in the location map.
//
// States are persistent values. Storing one and deriving others from it
// can never alias mutable storage, so stored states need no defensive
// copies.
type State struct {
	heap   tree.Tree[loc.Location, L.Value]
	frames *immutable.List[Frame]
}

// Loc returns the location of the active frame.
func (s State) Loc() defs.Loc {
	return s.ActiveFrame().Loc()
}

// ActiveFrame returns the topmost activation frame.
func (s State) ActiveFrame() Frame {
	if s.frames.Len() == 0 {
		invariantViolation("state with an empty call stack")
	}
	return s.frames.Get(s.frames.Len() - 1)
}

// CallDepth returns the number of activation frames.
func (s State) CallDepth() int {
	return s.frames.Len()
}

// UpdateFrame replaces the active frame.
func (s State) UpdateFrame(f Frame) State {
	s.frames = s.frames.Set(s.frames.Len()-1, f)
	return s
}

// PushFrame activates a callee frame on top of the call stack.
func (s State) PushFrame(f Frame) State {
	s.frames = s.frames.Append(f)
	return s
}

// PopFrame removes the active frame, reactivating its caller. Popping
// the outermost frame is an engine invariant violation; steppers treat
// a return from the outermost frame as termination instead.
func (s State) PopFrame() State {
	if s.frames.Len() <= 1 {
		invariantViolation("popping the outermost frame at %s", s.Loc())
	}
	s.frames = s.frames.Slice(0, s.frames.Len()-1)
	return s
}

// HeapGet looks up the value at a heap location.
func (s State) HeapGet(l loc.Location) (L.Value, bool) {
	return s.heap.Lookup(l)
}

// HeapUpdate binds a heap location, replacing any previous value.
func (s State) HeapUpdate(l loc.Location, v L.Value) State {
	s.heap = s.heap.Insert(l, v)
	return s
}

// HeapWeakUpdate joins a value into a heap location, keeping whatever
// was possible before.
func (s State) HeapWeakUpdate(l loc.Location, v L.Value) State {
	s.heap = s.heap.InsertOrMerge(l, v, joinValues)
	return s
}

// checkShape panics unless the two states have call stacks of equal
// depth with pairwise matching frame locations.
func (s State) checkShape(o State, op string) {
	if s.frames.Len() != o.frames.Len() {
		invariantViolation("%s of call stacks of depths %d and %d, %s and %s",
			op, s.frames.Len(), o.frames.Len(), s.CallString(), o.CallString())
	}
	for idx := 0; idx < s.frames.Len(); idx++ {
		if s.frames.Get(idx).Loc() != o.frames.Get(idx).Loc() {
			invariantViolation("%s of diverging call stacks %s and %s",
				op, s.CallString(), o.CallString())
		}
	}
}

// MonoJoin computes the least upper bound of two states at the same
// location with call stacks of the same shape. The heaps join
// location-wise; frames join pairwise from base to top.
func (s State) MonoJoin(o State) State {
	s.checkShape(o, "join")

	s.heap = s.heap.Merge(o.heap, joinValues)

	frames := immutable.NewList[Frame]()
	for idx := 0; idx < s.frames.Len(); idx++ {
		frames = frames.Append(s.frames.Get(idx).MonoJoin(o.frames.Get(idx)))
	}
	s.frames = frames

	return s
}

// MonoWiden extrapolates from the receiver towards o, which must bind
// at least the receiver's heap locations (in the driver, o is the
// receiver joined with an incoming state).
func (s State) MonoWiden(o State) State {
	s.checkShape(o, "widening")

	heap := s.heap
	o.heap.ForEach(func(l loc.Location, v L.Value) {
		heap = heap.InsertOrMerge(l, v, widenInto)
	})
	s.heap = heap

	frames := immutable.NewList[Frame]()
	for idx := 0; idx < s.frames.Len(); idx++ {
		frames = frames.Append(s.frames.Get(idx).MonoWiden(o.frames.Get(idx)))
	}
	s.frames = frames

	return s
}

// Eq checks whether two states have equal call stacks and heaps.
func (s State) Eq(o State) bool {
	if s.frames.Len() != o.frames.Len() {
		return false
	}
	for idx := 0; idx < s.frames.Len(); idx++ {
		if !s.frames.Get(idx).Eq(o.frames.Get(idx)) {
			return false
		}
	}
	return s.heap.Equal(o.heap, eqValues)
}

// CallString renders the call stack as its chain of frame locations,
// base first.
func (s State) CallString() string {
	strs := make([]string, 0, s.frames.Len())
	for idx := 0; idx < s.frames.Len(); idx++ {
		strs = append(strs, s.frames.Get(idx).Loc().String())
	}
	return "⟨" + strings.Join(strs, " → ") + "⟩"
}

func (s State) String() string {
	frames := make([]func() string, 0, s.frames.Len())
	for idx := s.frames.Len() - 1; idx >= 0; idx-- {
		idx := idx
		frames = append(frames, func() string {
			return s.frames.Get(idx).String()
		})
	}

	return i.Indenter().Start("{").
		NestThunked(func() string {
			return "frames: " + i.Indenter().Start("[").NestThunkedSep(",", frames...).End("]")
		}, func() string {
			return "heap: " + s.heap.String()
		}).
		End("}")
}
