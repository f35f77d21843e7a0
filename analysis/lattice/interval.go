package lattice

import (
	"fmt"
	"math"

	"github.com/cs-au-dk/ibex/analysis/cfg"
)

// Interval is a member of the interval domain. Any interval consists of
// two interval bounds, `low` and `high`. The empty interval is
// canonically represented as [∞, -∞].
type Interval struct {
	value
	low  IntervalBound
	high IntervalBound
}

// Interval creates an interval with possibly infinite bounds.
func (elementFactory) Interval(low IntervalBound, high IntervalBound) Interval {
	return Interval{low: low, high: high}
}

// IntervalFinite creates an interval with finite bounds.
func (elementFactory) IntervalFinite(low, high int64) Interval {
	return Interval{
		low:  FiniteBound(low),
		high: FiniteBound(high),
	}
}

// IntervalConst creates the singleton interval [n, n].
func (elementFactory) IntervalConst(n int64) Interval {
	return elFact.IntervalFinite(n, n)
}

// IntervalBot creates the empty interval [∞, -∞].
func (elementFactory) IntervalBot() Interval {
	return Interval{low: PlusInfinity{}, high: MinusInfinity{}}
}

// IntervalTop creates the unbounded interval [-∞, ∞].
func (elementFactory) IntervalTop() Interval {
	return Interval{low: MinusInfinity{}, high: PlusInfinity{}}
}

func (e Interval) String() string {
	_, low := e.low.(PlusInfinity)
	_, high := e.high.(MinusInfinity)
	if low && high {
		return colorize.Element("⊥")
	}
	return "[" + e.low.String() + ", " + e.high.String() + "]"
}

// Interval safely converts to an interval.
func (e Interval) Interval() Interval {
	return e
}

// IsBot checks that the interval is equal to ⊥ = [∞, -∞].
func (e Interval) IsBot() bool {
	return e == elFact.IntervalBot()
}

// IsTop checks that the interval is equal to ⊤ = [-∞, ∞].
func (e Interval) IsTop() bool {
	return e == elFact.IntervalTop()
}

// Eq computes e1 = e2. Performs domain dynamic type checking.
func (e1 Interval) Eq(e2 Value) bool {
	return e1.MonoEq(e2.Interval())
}

// MonoEq is a monomorphic variant of e1 = e2 for intervals.
func (e1 Interval) MonoEq(e2 Interval) bool {
	return e1.MonoLeq(e2) && e1.MonoGeq(e2)
}

// Leq computes e1 ⊑ e2. Performs domain dynamic type checking.
func (e1 Interval) Leq(e2 Value) bool {
	return e1.MonoLeq(e2.Interval())
}

// MonoLeq is a monomorphic variant of e1 ⊑ e2 for intervals.
func (e1 Interval) MonoLeq(e2 Interval) bool {
	return e1.low.Geq(e2.low) && e1.high.Leq(e2.high)
}

// Geq computes e1 ⊒ e2. Performs domain dynamic type checking.
func (e1 Interval) Geq(e2 Value) bool {
	return e1.MonoGeq(e2.Interval())
}

// MonoGeq is a monomorphic variant of e1 ⊒ e2 for intervals.
func (e1 Interval) MonoGeq(e2 Interval) bool {
	return e1.low.Leq(e2.low) && e1.high.Geq(e2.high)
}

// Join computes e1 ⊔ e2. Performs domain dynamic type checking.
func (e1 Interval) Join(e2 Value) Value {
	return e1.MonoJoin(e2.Interval())
}

// MonoJoin is a monomorphic variant of e1 ⊔ e2 for intervals.
// The resulting interval takes the lowest of the lower bounds,
// and the highest of the upper bounds.
func (e1 Interval) MonoJoin(e2 Interval) Interval {
	var low, high IntervalBound
	if e1.low.Leq(e2.low) {
		low = e1.low
	} else {
		low = e2.low
	}
	if e1.high.Geq(e2.high) {
		high = e1.high
	} else {
		high = e2.high
	}
	return Interval{low: low, high: high}
}

// Meet computes e1 ⊓ e2. Performs domain dynamic type checking.
func (e1 Interval) Meet(e2 Value) Value {
	return e1.MonoMeet(e2.Interval())
}

// MonoMeet is a monomorphic variant of e1 ⊓ e2 for intervals.
func (e1 Interval) MonoMeet(e2 Interval) Interval {
	// [l1, h1], [l2, h2]:
	switch {
	// h1 < l2 | h2 < l1 => [∞, -∞]
	case e1.high.Lt(e2.low) || e2.high.Lt(e1.low):
		return elFact.IntervalBot()
	// l1 <= l2 <= h1 <= h2
	case e2.low.Geq(e1.low) && e2.high.Geq(e1.high):
		return Interval{low: e2.low, high: e1.high}
	// l1 <= l2 <= h2 <= h1
	case e2.low.Geq(e1.low) && e1.high.Geq(e2.high):
		return Interval{low: e2.low, high: e2.high}
	// l2 <= l1 <= h1 <= h2
	case e1.low.Geq(e2.low) && e2.high.Geq(e1.high):
		return Interval{low: e1.low, high: e1.high}
	// l2 <= l1 <= h2 <= h1
	case e1.low.Geq(e2.low) && e1.high.Geq(e2.high):
		return Interval{low: e1.low, high: e2.high}
	}
	panic(errInternal)
}

// Widen computes e1 ∇ e2. Performs domain dynamic type checking.
func (e1 Interval) Widen(e2 Value) Value {
	return e1.MonoWiden(e2.Interval())
}

// MonoWiden is a monomorphic variant of e1 ∇ e2 for intervals.
// Bounds that are unstable from e1 to e2 jump directly to their
// infinity.
func (e1 Interval) MonoWiden(e2 Interval) Interval {
	if e1.IsBot() {
		return e2
	}
	if e2.IsBot() {
		return e1
	}
	low, high := e1.low, e1.high
	if e2.low.Lt(e1.low) {
		low = MinusInfinity{}
	}
	if e2.high.Gt(e1.high) {
		high = PlusInfinity{}
	}
	return Interval{low: low, high: high}
}

// Contains checks whether n is a member of the interval.
func (e Interval) Contains(n int64) bool {
	return e.low.Leq(FiniteBound(n)) && e.high.Geq(FiniteBound(n))
}

// GetFiniteBounds unpacks the interval bounds, if finite, and panics otherwise.
func (e Interval) GetFiniteBounds() (int64, int64) {
	if e.low.IsInfinite() || e.high.IsInfinite() {
		panic(fmt.Sprintf("Interval %s does not have finite bounds", e))
	}
	return (int64)(e.low.(FiniteBound)), (int64)(e.high.(FiniteBound))
}

// Low returns the lower bound as an integer, if finite, and panics otherwise.
func (e Interval) Low() int64 {
	if e.low.IsInfinite() {
		panic(fmt.Sprintf("Interval %s does not have finite lower bound", e))
	}
	return (int64)(e.low.(FiniteBound))
}

// High returns the upper bound as an integer, if finite, and panics otherwise.
func (e Interval) High() int64 {
	if e.high.IsInfinite() {
		panic(fmt.Sprintf("Interval %s does not have finite upper bound", e))
	}
	return (int64)(e.high.(FiniteBound))
}

// isConst unpacks the interval when it is a finite singleton [n, n].
func (e Interval) isConst() (int64, bool) {
	l, lok := e.low.(FiniteBound)
	h, hok := e.high.(FiniteBound)
	if lok && hok && l == h {
		return (int64)(l), true
	}
	return 0, false
}

// Plus computes the interval of sums of members of e1 and e2.
func (e1 Interval) Plus(e2 Interval) Interval {
	if e1.IsBot() || e2.IsBot() {
		return elFact.IntervalBot()
	}
	return Interval{low: e1.low.Plus(e2.low), high: e1.high.Plus(e2.high)}
}

// Minus computes the interval of differences of members of e1 and e2.
func (e1 Interval) Minus(e2 Interval) Interval {
	if e1.IsBot() || e2.IsBot() {
		return elFact.IntervalBot()
	}
	return Interval{low: e1.low.Minus(e2.high), high: e1.high.Minus(e2.low)}
}

// Mult computes the interval of products of members of e1 and e2
// as the hull of the four endpoint products.
func (e1 Interval) Mult(e2 Interval) Interval {
	if e1.IsBot() || e2.IsBot() {
		return elFact.IntervalBot()
	}
	cands := [4]IntervalBound{
		multBound(e1.low, e2.low),
		multBound(e1.low, e2.high),
		multBound(e1.high, e2.low),
		multBound(e1.high, e2.high),
	}
	low, high := cands[0], cands[0]
	for _, c := range cands[1:] {
		low = low.Min(c)
		high = high.Max(c)
	}
	return Interval{low: low, high: high}
}

// multBound computes the product of two bounds, taking 0 * ±∞ to be 0.
func multBound(b1, b2 IntervalBound) IntervalBound {
	if b1.Eq(FiniteBound(0)) || b2.Eq(FiniteBound(0)) {
		return FiniteBound(0)
	}
	return b1.Mult(b2)
}

// Div computes the interval of truncated quotients of members of e1 by
// nonzero members of e2. The flag reports whether e2 contains zero.
func (e1 Interval) Div(e2 Interval) (Interval, bool) {
	if e1.IsBot() || e2.IsBot() {
		return elFact.IntervalBot(), false
	}
	mayZero := e2.Contains(0)
	res := elFact.IntervalBot()
	for _, part := range []Interval{
		e2.MonoMeet(elFact.Interval(MinusInfinity{}, FiniteBound(-1))),
		e2.MonoMeet(elFact.Interval(FiniteBound(1), PlusInfinity{})),
	} {
		if part.IsBot() {
			continue
		}
		cands := [4]IntervalBound{
			divBound(e1.low, part.low),
			divBound(e1.low, part.high),
			divBound(e1.high, part.low),
			divBound(e1.high, part.high),
		}
		low, high := cands[0], cands[0]
		for _, c := range cands[1:] {
			low = low.Min(c)
			high = high.Max(c)
		}
		res = res.MonoJoin(Interval{low: low, high: high})
	}
	return res, mayZero
}

// divBound computes the quotient of two bounds, taking c / ±∞ to be 0
// for any c.
func divBound(b1, b2 IntervalBound) IntervalBound {
	if b2.IsInfinite() {
		return FiniteBound(0)
	}
	return b1.Div(b2)
}

// Rem computes the interval of remainders of members of e1 by nonzero
// members of e2. The flag reports whether e2 contains zero. The result
// magnitude stays below that of the divisor and its sign follows the
// dividend.
func (e1 Interval) Rem(e2 Interval) (Interval, bool) {
	if e1.IsBot() || e2.IsBot() {
		return elFact.IntervalBot(), false
	}
	if c, ok := e2.isConst(); ok && c == 0 {
		return elFact.IntervalBot(), true
	}
	m := absBound(e2.low).Max(absBound(e2.high)).Minus(FiniteBound(1))
	low := e1.low.Min(FiniteBound(0)).Max(FiniteBound(0).Minus(m))
	high := e1.high.Max(FiniteBound(0)).Min(m)
	return Interval{low: low, high: high}, e2.Contains(0)
}

// absBound computes the magnitude of a bound. Both infinities map to ∞.
func absBound(b IntervalBound) IntervalBound {
	switch b := b.(type) {
	case FiniteBound:
		switch {
		case b == math.MinInt64:
			return PlusInfinity{}
		case b < 0:
			return -b
		}
		return b
	}
	return PlusInfinity{}
}

// Cmp filters the operands of the comparison e1 `op` e2 through both
// branch polarities. Infeasible branches come back with ⊥ operands.
func (e1 Interval) Cmp(op cfg.Cond, e2 Interval) (whenTrue, whenFalse Refinement[Interval]) {
	return e1.refine(op, e2), e1.refine(op.Negate(), e2)
}

// refine clips the operands to the subintervals that can satisfy the
// comparison.
func (e1 Interval) refine(op cfg.Cond, e2 Interval) Refinement[Interval] {
	bot := elFact.IntervalBot()
	if e1.IsBot() || e2.IsBot() {
		return Refinement[Interval]{bot, bot}
	}

	switch op {
	case cfg.CondEq:
		m := e1.MonoMeet(e2)
		if m.IsBot() {
			return Refinement[Interval]{bot, bot}
		}
		return Refinement[Interval]{m, m}
	case cfg.CondNe:
		l, r := e1, e2
		if c, ok := e2.isConst(); ok {
			l = l.trim(c)
		}
		if c, ok := e1.isConst(); ok {
			r = r.trim(c)
		}
		if l.IsBot() || r.IsBot() {
			return Refinement[Interval]{bot, bot}
		}
		return Refinement[Interval]{l, r}
	case cfg.CondLt:
		return e1.refineOrd(e2, 1)
	case cfg.CondLe:
		return e1.refineOrd(e2, 0)
	case cfg.CondGt:
		rev := e2.refineOrd(e1, 1)
		return Refinement[Interval]{rev.Right, rev.Left}
	case cfg.CondGe:
		rev := e2.refineOrd(e1, 0)
		return Refinement[Interval]{rev.Right, rev.Left}
	}
	panic(errPatternMatch(op))
}

// refineOrd clips the operands of e1 + gap ≤ e2 to the satisfying
// subintervals.
func (e1 Interval) refineOrd(e2 Interval, gap FiniteBound) Refinement[Interval] {
	l := e1.MonoMeet(Interval{low: MinusInfinity{}, high: e2.high.Minus(gap)})
	r := e2.MonoMeet(Interval{low: e1.low.Plus(gap), high: PlusInfinity{}})
	if l.IsBot() || r.IsBot() {
		bot := elFact.IntervalBot()
		return Refinement[Interval]{bot, bot}
	}
	return Refinement[Interval]{l, r}
}

// trim excludes c from the interval when c sits on one of its
// endpoints. Interior members cannot be excluded.
func (e Interval) trim(c int64) Interval {
	if n, ok := e.isConst(); ok && n == c {
		return elFact.IntervalBot()
	}
	res := e
	if res.low.Eq(FiniteBound(c)) {
		res.low = FiniteBound(c + 1)
	}
	if res.high.Eq(FiniteBound(c)) {
		res.high = FiniteBound(c - 1)
	}
	return res
}
