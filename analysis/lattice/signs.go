package lattice

import (
	"strings"

	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/utils"
)

// The sign masks compose into the eight members of the sign domain.
const (
	signNeg uint8 = 1 << iota
	signZero
	signPos
	signAll = signNeg | signZero | signPos
)

// Signs is a member of the sign domain: the set of signs an integer
// may carry.
type Signs struct {
	value
	mask uint8
}

// SignsBot creates the empty sign set.
func (elementFactory) SignsBot() Signs {
	return Signs{}
}

// SignsTop creates the full sign set.
func (elementFactory) SignsTop() Signs {
	return Signs{mask: signAll}
}

// Sign creates the singleton sign set abstracting n.
func (elementFactory) Sign(n int64) Signs {
	switch {
	case n < 0:
		return Signs{mask: signNeg}
	case n == 0:
		return Signs{mask: signZero}
	}
	return Signs{mask: signPos}
}

// Signs safely converts to a sign set.
func (e Signs) Signs() Signs {
	return e
}

// IsBot checks whether the sign set is empty.
func (e Signs) IsBot() bool {
	return e.mask == 0
}

// IsTop checks whether the sign set is {-, 0, +}.
func (e Signs) IsTop() bool {
	return e.mask == signAll
}

// MayNeg checks whether the sign set admits a negative integer.
func (e Signs) MayNeg() bool {
	return e.mask&signNeg != 0
}

// MayZero checks whether the sign set admits zero.
func (e Signs) MayZero() bool {
	return e.mask&signZero != 0
}

// MayPos checks whether the sign set admits a positive integer.
func (e Signs) MayPos() bool {
	return e.mask&signPos != 0
}

func (e Signs) String() string {
	switch {
	case e.IsBot():
		return colorize.Element("⊥")
	case e.IsTop():
		return colorize.Element("⊤")
	}
	var parts []string
	if e.MayNeg() {
		parts = append(parts, "-")
	}
	if e.MayZero() {
		parts = append(parts, "0")
	}
	if e.MayPos() {
		parts = append(parts, "+")
	}
	return colorize.Element("{" + strings.Join(parts, ", ") + "}")
}

// Eq computes e1 = e2. Performs domain dynamic type checking.
func (e1 Signs) Eq(e2 Value) bool {
	return e1.mask == e2.Signs().mask
}

// Leq computes e1 ⊑ e2. Performs domain dynamic type checking.
func (e1 Signs) Leq(e2 Value) bool {
	return e1.mask&^e2.Signs().mask == 0
}

// Geq computes e1 ⊒ e2. Performs domain dynamic type checking.
func (e1 Signs) Geq(e2 Value) bool {
	return e2.Signs().Leq(e1)
}

// Join computes e1 ⊔ e2. Performs domain dynamic type checking.
func (e1 Signs) Join(e2 Value) Value {
	return e1.MonoJoin(e2.Signs())
}

// MonoJoin is a monomorphic variant of e1 ⊔ e2 for sign sets.
func (e1 Signs) MonoJoin(e2 Signs) Signs {
	return Signs{mask: e1.mask | e2.mask}
}

// Meet computes e1 ⊓ e2. Performs domain dynamic type checking.
func (e1 Signs) Meet(e2 Value) Value {
	return e1.MonoMeet(e2.Signs())
}

// MonoMeet is a monomorphic variant of e1 ⊓ e2 for sign sets.
func (e1 Signs) MonoMeet(e2 Signs) Signs {
	return Signs{mask: e1.mask & e2.mask}
}

// members unpacks the sign set into its singleton masks.
func (e Signs) members() []uint8 {
	return utils.SetBits(e.mask, signNeg, signZero, signPos)
}

// negate mirrors the sign set around zero.
func (e Signs) negate() Signs {
	res := Signs{mask: e.mask & signZero}
	if e.MayNeg() {
		res.mask |= signPos
	}
	if e.MayPos() {
		res.mask |= signNeg
	}
	return res
}

// Plus computes the sign set of sums of members of e1 and e2.
func (e1 Signs) Plus(e2 Signs) Signs {
	res := Signs{}
	for _, a := range e1.members() {
		for _, b := range e2.members() {
			res.mask |= plusSign(a, b)
		}
	}
	return res
}

func plusSign(a, b uint8) uint8 {
	switch {
	case a == signZero:
		return b
	case b == signZero:
		return a
	case a == b:
		return a
	}
	// A negative plus a positive lands anywhere.
	return signAll
}

// Minus computes the sign set of differences of members of e1 and e2.
func (e1 Signs) Minus(e2 Signs) Signs {
	return e1.Plus(e2.negate())
}

// Mult computes the sign set of products of members of e1 and e2.
func (e1 Signs) Mult(e2 Signs) Signs {
	res := Signs{}
	for _, a := range e1.members() {
		for _, b := range e2.members() {
			res.mask |= multSign(a, b)
		}
	}
	return res
}

func multSign(a, b uint8) uint8 {
	switch {
	case a == signZero || b == signZero:
		return signZero
	case a == b:
		return signPos
	}
	return signNeg
}

// Div computes the sign set of truncated quotients of members of e1 by
// nonzero members of e2. The flag reports whether e2 admits zero.
func (e1 Signs) Div(e2 Signs) (Signs, bool) {
	res := Signs{}
	for _, a := range e1.members() {
		for _, b := range e2.members() {
			if b == signZero {
				continue
			}
			res.mask |= divSign(a, b)
		}
	}
	return res, e2.MayZero()
}

// divSign reflects truncated division. Small magnitudes divided by
// larger ones reach zero.
func divSign(a, b uint8) uint8 {
	switch {
	case a == signZero:
		return signZero
	case a == b:
		return signZero | signPos
	}
	return signNeg | signZero
}

// Rem computes the sign set of remainders of members of e1 by nonzero
// members of e2. The flag reports whether e2 admits zero.
func (e1 Signs) Rem(e2 Signs) (Signs, bool) {
	res := Signs{}
	for _, a := range e1.members() {
		for _, b := range e2.members() {
			if b == signZero {
				continue
			}
			res.mask |= remSign(a)
		}
	}
	return res, e2.MayZero()
}

// remSign reflects that a remainder follows the sign of the dividend
// and may vanish.
func remSign(a uint8) uint8 {
	if a == signZero {
		return signZero
	}
	return a | signZero
}

// Cmp filters the operands of the comparison e1 `op` e2 through both
// branch polarities. Infeasible branches come back with ⊥ operands.
func (e1 Signs) Cmp(op cfg.Cond, e2 Signs) (whenTrue, whenFalse Refinement[Signs]) {
	for _, a := range e1.members() {
		for _, b := range e2.members() {
			if cmpPossible(op, a, b) {
				whenTrue.Left.mask |= a
				whenTrue.Right.mask |= b
			}
			if cmpPossible(op.Negate(), a, b) {
				whenFalse.Left.mask |= a
				whenFalse.Right.mask |= b
			}
		}
	}
	return whenTrue, whenFalse
}

// cmpPossible checks whether integers of the two signs exist that
// satisfy the comparison.
func cmpPossible(op cfg.Cond, a, b uint8) bool {
	lt := a == signNeg || b == signPos
	gt := a == signPos || b == signNeg
	eq := a == b
	switch op {
	case cfg.CondEq:
		return eq
	case cfg.CondNe:
		return a != signZero || b != signZero
	case cfg.CondLt:
		return lt
	case cfg.CondLe:
		return lt || eq
	case cfg.CondGt:
		return gt
	case cfg.CondGe:
		return gt || eq
	}
	panic(errPatternMatch(op))
}
