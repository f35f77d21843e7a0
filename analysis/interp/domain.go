package interp

import (
	"fmt"

	"github.com/cs-au-dk/ibex/analysis/cfg"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
)

// Domain binds one of the integer abstractions to the stepper:
// constants, arithmetic and comparison refinement. Every integer value
// the stepper produces or consumes belongs to the bound abstraction;
// mixing abstractions faults the run through the conversion API of the
// lattice package.
type Domain interface {
	Name() string
	// Const abstracts the integer constant n.
	Const(n int64) L.Value
	// Top is the unconstrained integer.
	Top() L.Value
	// Bot is the infeasible integer.
	Bot() L.Value
	// IsBot checks whether v admits no integer at all.
	IsBot(v L.Value) bool
	// Binary applies an arithmetic operator to two operands. For div and
	// rem the flag reports whether the divisor admits zero; the result
	// covers the quotients and remainders by nonzero divisors only.
	Binary(op cfg.BinOp, left, right L.Value) (L.Value, bool)
	// Cmp filters the operands of a comparison through both branch
	// polarities. Infeasible branches come back with Bot operands.
	Cmp(op cfg.Cond, left, right L.Value) (whenTrue, whenFalse L.Refinement[L.Value])
}

func valueRefinement[T L.Value](r L.Refinement[T]) L.Refinement[L.Value] {
	return L.Refinement[L.Value]{Left: r.Left, Right: r.Right}
}

// SignsDomain abstracts integers by the set of signs they may carry.
func SignsDomain() Domain {
	return signsDomain{}
}

type signsDomain struct{}

func (signsDomain) Name() string {
	return "signs"
}

func (signsDomain) Const(n int64) L.Value {
	return Elements().Sign(n)
}

func (signsDomain) Top() L.Value {
	return Elements().SignsTop()
}

func (signsDomain) Bot() L.Value {
	return Elements().SignsBot()
}

func (signsDomain) IsBot(v L.Value) bool {
	return v.Signs().IsBot()
}

func (signsDomain) Binary(op cfg.BinOp, left, right L.Value) (L.Value, bool) {
	l, r := left.Signs(), right.Signs()
	switch op {
	case cfg.OpAdd:
		return l.Plus(r), false
	case cfg.OpSub:
		return l.Minus(r), false
	case cfg.OpMul:
		return l.Mult(r), false
	case cfg.OpDiv:
		return liftDiv(l.Div(r))
	case cfg.OpRem:
		return liftDiv(l.Rem(r))
	}
	panic(fmt.Sprintf("unknown operator %q", string(op)))
}

func (signsDomain) Cmp(op cfg.Cond, left, right L.Value) (L.Refinement[L.Value], L.Refinement[L.Value]) {
	wt, wf := left.Signs().Cmp(op, right.Signs())
	return valueRefinement(wt), valueRefinement(wf)
}

// FlatIntDomain abstracts integers by constant propagation.
func FlatIntDomain() Domain {
	return flatIntDomain{}
}

type flatIntDomain struct{}

func (flatIntDomain) Name() string {
	return "flat"
}

func (flatIntDomain) Const(n int64) L.Value {
	return Elements().FlatInt(n)
}

func (flatIntDomain) Top() L.Value {
	return Elements().FlatIntTop()
}

func (flatIntDomain) Bot() L.Value {
	return Elements().FlatIntBot()
}

func (flatIntDomain) IsBot(v L.Value) bool {
	return v.FlatInt().IsBot()
}

func (flatIntDomain) Binary(op cfg.BinOp, left, right L.Value) (L.Value, bool) {
	l, r := left.FlatInt(), right.FlatInt()
	switch op {
	case cfg.OpAdd:
		return l.Plus(r), false
	case cfg.OpSub:
		return l.Minus(r), false
	case cfg.OpMul:
		return l.Mult(r), false
	case cfg.OpDiv:
		return liftDiv(l.Div(r))
	case cfg.OpRem:
		return liftDiv(l.Rem(r))
	}
	panic(fmt.Sprintf("unknown operator %q", string(op)))
}

func (flatIntDomain) Cmp(op cfg.Cond, left, right L.Value) (L.Refinement[L.Value], L.Refinement[L.Value]) {
	wt, wf := left.FlatInt().Cmp(op, right.FlatInt())
	return valueRefinement(wt), valueRefinement(wf)
}

// IntervalDomain abstracts integers by their range. The domain has
// infinite ascending chains; runs over loops need a widening delay or a
// step budget to terminate.
func IntervalDomain() Domain {
	return intervalDomain{}
}

type intervalDomain struct{}

func (intervalDomain) Name() string {
	return "interval"
}

func (intervalDomain) Const(n int64) L.Value {
	return Elements().IntervalConst(n)
}

func (intervalDomain) Top() L.Value {
	return Elements().IntervalTop()
}

func (intervalDomain) Bot() L.Value {
	return Elements().IntervalBot()
}

func (intervalDomain) IsBot(v L.Value) bool {
	return v.Interval().IsBot()
}

func (intervalDomain) Binary(op cfg.BinOp, left, right L.Value) (L.Value, bool) {
	l, r := left.Interval(), right.Interval()
	switch op {
	case cfg.OpAdd:
		return l.Plus(r), false
	case cfg.OpSub:
		return l.Minus(r), false
	case cfg.OpMul:
		return l.Mult(r), false
	case cfg.OpDiv:
		return liftDiv(l.Div(r))
	case cfg.OpRem:
		return liftDiv(l.Rem(r))
	}
	panic(fmt.Sprintf("unknown operator %q", string(op)))
}

func (intervalDomain) Cmp(op cfg.Cond, left, right L.Value) (L.Refinement[L.Value], L.Refinement[L.Value]) {
	wt, wf := left.Interval().Cmp(op, right.Interval())
	return valueRefinement(wt), valueRefinement(wf)
}

// liftDiv widens the element type of a div/rem result to Value.
func liftDiv[T L.Value](res T, mayZero bool) (L.Value, bool) {
	return res, mayZero
}
