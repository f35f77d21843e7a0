package lattice

import (
	"fmt"
	"strconv"

	"github.com/cs-au-dk/ibex/analysis/cfg"
)

type flatKind uint8

const (
	flatBot flatKind = iota
	flatConst
	flatTop
)

// FlatInt is a member of the flat integer constant domain: an exact
// integer, or one of ⊥ and ⊤.
type FlatInt struct {
	value
	kind flatKind
	n    int64
}

// FlatInt creates the flat constant n.
func (elementFactory) FlatInt(n int64) FlatInt {
	return FlatInt{kind: flatConst, n: n}
}

// FlatIntBot creates the ⊥ flat integer.
func (elementFactory) FlatIntBot() FlatInt {
	return FlatInt{kind: flatBot}
}

// FlatIntTop creates the ⊤ flat integer.
func (elementFactory) FlatIntTop() FlatInt {
	return FlatInt{kind: flatTop}
}

// FlatInt safely converts to a flat integer.
func (e FlatInt) FlatInt() FlatInt {
	return e
}

// IsBot checks whether the flat integer is ⊥.
func (e FlatInt) IsBot() bool {
	return e.kind == flatBot
}

// IsTop checks whether the flat integer is ⊤.
func (e FlatInt) IsTop() bool {
	return e.kind == flatTop
}

// IsConst checks whether the flat integer is an exact constant.
func (e FlatInt) IsConst() bool {
	return e.kind == flatConst
}

// Is checks whether the flat integer is exactly n.
func (e FlatInt) Is(n int64) bool {
	return e.kind == flatConst && e.n == n
}

// Value unpacks the constant and panics on ⊥ or ⊤.
func (e FlatInt) Value() int64 {
	if e.kind != flatConst {
		panic(fmt.Sprintf("Called Value() on %s", e))
	}
	return e.n
}

func (e FlatInt) String() string {
	switch e.kind {
	case flatBot:
		return colorize.Element("⊥")
	case flatTop:
		return colorize.Element("⊤")
	}
	return colorize.Const(strconv.FormatInt(e.n, 10))
}

// Eq computes e1 = e2. Performs domain dynamic type checking.
func (e1 FlatInt) Eq(e2 Value) bool {
	return e1 == e2.FlatInt()
}

// Leq computes e1 ⊑ e2. Performs domain dynamic type checking.
func (e1 FlatInt) Leq(e2 Value) bool {
	o := e2.FlatInt()
	return e1.IsBot() || o.IsTop() || e1 == o
}

// Geq computes e1 ⊒ e2. Performs domain dynamic type checking.
func (e1 FlatInt) Geq(e2 Value) bool {
	return e2.FlatInt().Leq(e1)
}

// Join computes e1 ⊔ e2. Performs domain dynamic type checking.
func (e1 FlatInt) Join(e2 Value) Value {
	return e1.MonoJoin(e2.FlatInt())
}

// MonoJoin is a monomorphic variant of e1 ⊔ e2 for flat integers.
func (e1 FlatInt) MonoJoin(e2 FlatInt) FlatInt {
	switch {
	case e1.IsBot():
		return e2
	case e2.IsBot():
		return e1
	case e1 == e2:
		return e1
	}
	return elFact.FlatIntTop()
}

// Meet computes e1 ⊓ e2. Performs domain dynamic type checking.
func (e1 FlatInt) Meet(e2 Value) Value {
	return e1.MonoMeet(e2.FlatInt())
}

// MonoMeet is a monomorphic variant of e1 ⊓ e2 for flat integers.
func (e1 FlatInt) MonoMeet(e2 FlatInt) FlatInt {
	switch {
	case e1.IsTop():
		return e2
	case e2.IsTop():
		return e1
	case e1 == e2:
		return e1
	}
	return elFact.FlatIntBot()
}

// binop applies f to exact constants and propagates ⊥ and ⊤ otherwise.
func (e1 FlatInt) binop(e2 FlatInt, f func(a, b int64) int64) FlatInt {
	switch {
	case e1.IsBot() || e2.IsBot():
		return elFact.FlatIntBot()
	case e1.IsTop() || e2.IsTop():
		return elFact.FlatIntTop()
	}
	return elFact.FlatInt(f(e1.n, e2.n))
}

// Plus computes the flat sum of e1 and e2.
func (e1 FlatInt) Plus(e2 FlatInt) FlatInt {
	return e1.binop(e2, func(a, b int64) int64 { return a + b })
}

// Minus computes the flat difference of e1 and e2.
func (e1 FlatInt) Minus(e2 FlatInt) FlatInt {
	return e1.binop(e2, func(a, b int64) int64 { return a - b })
}

// Mult computes the flat product of e1 and e2.
func (e1 FlatInt) Mult(e2 FlatInt) FlatInt {
	return e1.binop(e2, func(a, b int64) int64 { return a * b })
}

// Div computes the flat truncated quotient of e1 by e2. The flag
// reports whether e2 admits zero.
func (e1 FlatInt) Div(e2 FlatInt) (FlatInt, bool) {
	switch {
	case e1.IsBot() || e2.IsBot():
		return elFact.FlatIntBot(), false
	case e2.Is(0):
		return elFact.FlatIntBot(), true
	case e2.IsTop():
		return elFact.FlatIntTop(), true
	case e1.IsTop():
		return elFact.FlatIntTop(), false
	}
	return elFact.FlatInt(e1.n / e2.n), false
}

// Rem computes the flat remainder of e1 by e2. The flag reports whether
// e2 admits zero.
func (e1 FlatInt) Rem(e2 FlatInt) (FlatInt, bool) {
	switch {
	case e1.IsBot() || e2.IsBot():
		return elFact.FlatIntBot(), false
	case e2.Is(0):
		return elFact.FlatIntBot(), true
	case e2.IsTop():
		return elFact.FlatIntTop(), true
	case e1.IsTop():
		return elFact.FlatIntTop(), false
	}
	return elFact.FlatInt(e1.n % e2.n), false
}

// Cmp filters the operands of the comparison e1 `op` e2 through both
// branch polarities. Infeasible branches come back with ⊥ operands.
func (e1 FlatInt) Cmp(op cfg.Cond, e2 FlatInt) (whenTrue, whenFalse Refinement[FlatInt]) {
	return e1.refine(op, e2), e1.refine(op.Negate(), e2)
}

func (e1 FlatInt) refine(op cfg.Cond, e2 FlatInt) Refinement[FlatInt] {
	bot := elFact.FlatIntBot()
	if e1.IsBot() || e2.IsBot() {
		return Refinement[FlatInt]{bot, bot}
	}

	if e1.IsConst() && e2.IsConst() {
		if cmpConst(op, e1.n, e2.n) {
			return Refinement[FlatInt]{e1, e2}
		}
		return Refinement[FlatInt]{bot, bot}
	}

	// A ⊤ operand tested for equality against a constant narrows to
	// that constant. Ordered comparisons cannot narrow a flat value.
	if op == cfg.CondEq {
		m := e1.MonoMeet(e2)
		return Refinement[FlatInt]{m, m}
	}
	return Refinement[FlatInt]{e1, e2}
}

// cmpConst decides a comparison of two integer constants.
func cmpConst(op cfg.Cond, a, b int64) bool {
	switch op {
	case cfg.CondEq:
		return a == b
	case cfg.CondNe:
		return a != b
	case cfg.CondLt:
		return a < b
	case cfg.CondLe:
		return a <= b
	case cfg.CondGt:
		return a > b
	case cfg.CondGe:
		return a >= b
	}
	panic(errPatternMatch(op))
}
