package absint

import (
	"fmt"
	"sort"

	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/analysis/defs"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
	i "github.com/cs-au-dk/ibex/utils/indenter"
	"github.com/cs-au-dk/ibex/utils/tree"

	"github.com/benbjohnson/immutable"
)

// Frame is the activation record of one method invocation: the program
// location under execution, the abstract values of the locals assigned
// so far, and the operand stack with its base at position 0.
//
// A local without a binding is unconstrained, never bottom; steppers
// that need a value for an unbound local substitute the top of their
// domain. Frames are persistent values, so deriving one never affects
// the original.
type Frame struct {
	loc    defs.Loc
	locals tree.Tree[int, L.Value]
	stack  *immutable.List[L.Value]
}

// Loc returns the program location the frame is at.
func (f Frame) Loc() defs.Loc {
	return f.loc
}

// Method returns the method the frame activates.
func (f Frame) Method() *cfg.Method {
	return f.loc.Method
}

// Derive moves the frame to the given location.
func (f Frame) Derive(l defs.Loc) Frame {
	f.loc = l
	return f
}

// Succ moves the frame to the next instruction in sequence.
func (f Frame) Succ() Frame {
	return f.Derive(f.loc.Succ())
}

// Local looks up the value bound to a local variable.
func (f Frame) Local(index int) (L.Value, bool) {
	return f.locals.Lookup(index)
}

// UpdateLocal binds a local variable.
func (f Frame) UpdateLocal(index int, v L.Value) Frame {
	f.locals = f.locals.Insert(index, v)
	return f
}

// StackLen returns the operand stack height.
func (f Frame) StackLen() int {
	return f.stack.Len()
}

// Top returns the topmost operand without popping it.
func (f Frame) Top() L.Value {
	if f.stack.Len() == 0 {
		invariantViolation("operand stack underflow at %s", f.loc)
	}
	return f.stack.Get(f.stack.Len() - 1)
}

// Push puts a value on top of the operand stack.
func (f Frame) Push(v L.Value) Frame {
	f.stack = f.stack.Append(v)
	return f
}

// Pop takes the topmost operand off the stack. Steppers check the
// height up front, so an underflow here is an engine invariant
// violation.
func (f Frame) Pop() (L.Value, Frame) {
	n := f.stack.Len()
	if n == 0 {
		invariantViolation("operand stack underflow at %s", f.loc)
	}
	v := f.stack.Get(n - 1)
	f.stack = f.stack.Slice(0, n-1)
	return v, f
}

// Pop2 takes the two topmost operands off the stack. The first returned
// value is the topmost of the two.
func (f Frame) Pop2() (L.Value, L.Value, Frame) {
	v1, f := f.Pop()
	v2, f := f.Pop()
	return v1, v2, f
}

// checkShape panics unless the two frames agree on location and operand
// stack height.
func (f1 Frame) checkShape(f2 Frame, op string) {
	if f1.loc != f2.loc {
		invariantViolation("%s of frames at different locations, %s and %s",
			op, f1.loc, f2.loc)
	}
	if f1.stack.Len() != f2.stack.Len() {
		invariantViolation("%s of operand stacks of heights %d and %d at %s",
			op, f1.stack.Len(), f2.stack.Len(), f1.loc)
	}
}

// MonoJoin computes the least upper bound of two frames of the same
// shape. Locals bound in only one operand carry over unchanged, since
// absence already means unconstrained.
func (f1 Frame) MonoJoin(f2 Frame) Frame {
	f1.checkShape(f2, "join")

	f1.locals = f1.locals.Merge(f2.locals, joinValues)

	if !stackEq(f1.stack, f2.stack) {
		stack := immutable.NewList[L.Value]()
		for idx := 0; idx < f1.stack.Len(); idx++ {
			stack = stack.Append(f1.stack.Get(idx).Join(f2.stack.Get(idx)))
		}
		f1.stack = stack
	}

	return f1
}

// MonoWiden extrapolates from the receiver towards f2, which must bind
// at least the receiver's locals (in the driver, f2 is the receiver
// joined with an incoming frame). Values of unbounded-height domains
// widen; everything else joins.
func (f1 Frame) MonoWiden(f2 Frame) Frame {
	f1.checkShape(f2, "widening")

	locals := f1.locals
	f2.locals.ForEach(func(index int, v L.Value) {
		locals = locals.InsertOrMerge(index, v, widenInto)
	})
	f1.locals = locals

	if !stackEq(f1.stack, f2.stack) {
		stack := immutable.NewList[L.Value]()
		for idx := 0; idx < f1.stack.Len(); idx++ {
			stack = stack.Append(L.WidenOrJoin(f1.stack.Get(idx), f2.stack.Get(idx)))
		}
		f1.stack = stack
	}

	return f1
}

// Eq checks whether two frames bind equal values at the same location.
func (f1 Frame) Eq(f2 Frame) bool {
	if f1.loc != f2.loc || !f1.locals.Equal(f2.locals, eqValues) {
		return false
	}
	return stackEq(f1.stack, f2.stack)
}

func stackEq(s1, s2 *immutable.List[L.Value]) bool {
	if s1.Len() != s2.Len() {
		return false
	}
	for idx := 0; idx < s1.Len(); idx++ {
		if !s1.Get(idx).Eq(s2.Get(idx)) {
			return false
		}
	}
	return true
}

func (f Frame) String() string {
	indices := []int{}
	f.locals.ForEach(func(index int, _ L.Value) {
		indices = append(indices, index)
	})
	sort.Ints(indices)

	locals := make([]func() string, 0, len(indices))
	for _, index := range indices {
		index := index
		locals = append(locals, func() string {
			v, _ := f.locals.Lookup(index)
			return fmt.Sprintf("%s ↦ %s", colorize.Attr(index), v)
		})
	}

	stack := make([]func() string, 0, f.stack.Len())
	for idx := f.stack.Len() - 1; idx >= 0; idx-- {
		idx := idx
		stack = append(stack, func() string {
			return f.stack.Get(idx).String()
		})
	}

	return i.Indenter().Start(f.loc.String() + " {").
		NestThunked(func() string {
			return "stack: " + i.Indenter().Start("[").NestThunkedSep(",", stack...).End("]")
		}, func() string {
			return "locals: " + i.Indenter().Start("{").NestThunkedSep(",", locals...).End("}")
		}).
		End("}")
}
