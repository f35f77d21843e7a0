package lattice

import (
	"testing"

	"github.com/cs-au-dk/ibex/analysis/cfg"
)

func TestIntervalJoin(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()
	top := Create().Element().IntervalTop()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Value
	}{
		{bot, bot, bot},
		{bot, top, top},
		{top, bot, top},
		{top, top, top},
		{bot, int(b(0), b(0)), int(b(0), b(0))},
		{int(b(0), b(0)), bot, int(b(0), b(0))},
		{int(b(0), b(0)), int(b(1), b(1)), int(b(0), b(1))},
		{int(b(1), b(1)), int(b(0), b(0)), int(b(0), b(1))},
		{int(b(1), b(2)), int(b(3), b(4)), int(b(1), b(4))},
		{int(b(-1), b(0)), int(b(0), b(1)), int(b(-1), b(1))},
		{int(b(0), b(1)), int(b(-1), b(0)), int(b(-1), b(1))},
		{int(b(0), b(1024)), int(b(0), P{}), int(b(0), P{})},
		{int(b(0), P{}), int(b(0), b(1024)), int(b(0), P{})},
		{int(b(-1024), b(0)), int(b(0), P{}), int(b(-1024), P{})},
		{int(M{}, b(0)), int(b(-1024), b(0)), int(M{}, b(0))},
		{int(b(-1024), b(0)), int(M{}, b(0)), int(M{}, b(0))},
		{int(M{}, b(-1024)), int(b(1024), P{}), top},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		} else {
			t.Logf("%s ⊔ %s = %s\n", test.a, test.b, res)
		}
	}
}

func TestIntervalMeet(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()
	top := Create().Element().IntervalTop()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Value
	}{
		{bot, bot, bot},
		{bot, top, bot},
		{top, bot, bot},
		{top, top, top},
		{top, int(b(0), b(1)), int(b(0), b(1))},
		{int(b(0), b(1)), top, int(b(0), b(1))},
		{int(b(0), b(5)), int(b(3), b(8)), int(b(3), b(5))},
		{int(b(3), b(8)), int(b(0), b(5)), int(b(3), b(5))},
		{int(b(0), b(8)), int(b(3), b(5)), int(b(3), b(5))},
		{int(b(0), b(1)), int(b(2), b(3)), bot},
		{int(M{}, b(0)), int(b(0), P{}), int(b(0), b(0))},
		{int(M{}, b(-1)), int(b(1), P{}), bot},
	}

	for _, test := range tests {
		res := test.a.Meet(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊓ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		} else {
			t.Logf("%s ⊓ %s = %s\n", test.a, test.b, res)
		}
	}
}

func TestIntervalLeq(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()
	top := Create().Element().IntervalTop()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b     Value
		expected bool
	}{
		{bot, bot, true},
		{bot, int(b(3), b(4)), true},
		{bot, top, true},
		{top, bot, false},
		{int(b(3), b(4)), bot, false},
		{int(b(3), b(4)), int(b(3), b(4)), true},
		{int(b(3), b(4)), int(b(2), b(5)), true},
		{int(b(2), b(5)), int(b(3), b(4)), false},
		{int(b(3), b(4)), int(b(4), b(5)), false},
		{int(b(0), b(1024)), int(b(0), P{}), true},
		{int(M{}, b(0)), top, true},
		{top, int(M{}, b(0)), false},
	}

	for _, test := range tests {
		res := test.a.Leq(test.b)
		if res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalArithmetic(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	plus := func(a, b Interval) Interval { return a.Plus(b) }
	minus := func(a, b Interval) Interval { return a.Minus(b) }
	mult := func(a, b Interval) Interval { return a.Mult(b) }

	tests := []struct {
		name           string
		op             func(a, b Interval) Interval
		a, b, expected Interval
	}{
		{"+", plus, int(b(1), b(2)), int(b(3), b(4)), int(b(4), b(6))},
		{"+", plus, int(b(0), P{}), int(b(1), b(1)), int(b(1), P{})},
		{"+", plus, int(M{}, b(0)), int(b(-1), b(5)), int(M{}, b(5))},
		{"+", plus, bot, int(b(1), b(1)), bot},
		{"-", minus, int(b(1), b(2)), int(b(3), b(4)), int(b(-3), b(-1))},
		{"-", minus, int(b(0), b(5)), int(b(0), P{}), int(M{}, b(5))},
		{"-", minus, int(b(1), b(1)), bot, bot},
		{"*", mult, int(b(2), b(3)), int(b(4), b(5)), int(b(8), b(15))},
		{"*", mult, int(b(-2), b(3)), int(b(4), b(5)), int(b(-10), b(15))},
		{"*", mult, int(b(-2), b(-1)), int(b(-3), b(-2)), int(b(2), b(6))},
		{"*", mult, int(b(0), b(0)), int(M{}, P{}), int(b(0), b(0))},
		{"*", mult, int(b(0), b(2)), int(b(3), P{}), int(b(0), P{})},
		{"*", mult, int(b(-1), b(1)), int(b(0), P{}), int(M{}, P{})},
	}

	for _, test := range tests {
		res := test.op(test.a, test.b)
		if !res.MonoEq(test.expected) {
			t.Errorf("%s %s %s = %s, expected %s\n", test.a, test.name, test.b, res, test.expected)
		} else {
			t.Logf("%s %s %s = %s\n", test.a, test.name, test.b, res)
		}
	}
}

func TestIntervalDiv(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Interval
		mayZero        bool
	}{
		{int(b(7), b(7)), int(b(2), b(2)), int(b(3), b(3)), false},
		{int(b(1), b(10)), int(b(2), b(5)), int(b(0), b(5)), false},
		{int(b(-10), b(10)), int(b(-2), b(2)), int(b(-10), b(10)), true},
		{int(b(5), b(5)), int(b(0), b(0)), bot, true},
		{int(b(0), b(100)), int(b(0), b(10)), int(b(0), b(100)), true},
		{int(b(1), P{}), int(b(2), b(2)), int(b(0), P{}), false},
		{int(b(5), P{}), int(b(-3), b(-2)), int(M{}, b(-1)), false},
		{int(M{}, b(-5)), int(b(2), b(3)), int(M{}, b(-1)), false},
		{int(b(10), b(10)), int(M{}, b(-1)), int(b(-10), b(0)), false},
		{bot, int(b(1), b(1)), bot, false},
	}

	for _, test := range tests {
		res, mayZero := test.a.Div(test.b)
		if !res.MonoEq(test.expected) || mayZero != test.mayZero {
			t.Errorf("%s / %s = (%s, %v), expected (%s, %v)\n",
				test.a, test.b, res, mayZero, test.expected, test.mayZero)
		}
	}
}

func TestIntervalRem(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Interval
		mayZero        bool
	}{
		{int(b(5), b(5)), int(b(2), b(100)), int(b(0), b(5)), false},
		{int(b(-7), b(-7)), int(b(3), b(3)), int(b(-2), b(0)), false},
		{int(b(0), b(100)), int(b(10), b(10)), int(b(0), b(9)), false},
		{int(M{}, P{}), int(b(2), b(4)), int(b(-3), b(3)), false},
		{int(b(3), b(3)), int(b(-4), b(4)), int(b(0), b(3)), true},
		{int(b(5), b(5)), int(b(0), b(0)), bot, true},
		{int(b(1), b(9)), int(b(1), P{}), int(b(0), b(9)), false},
		{bot, int(b(3), b(3)), bot, false},
	}

	for _, test := range tests {
		res, mayZero := test.a.Rem(test.b)
		if !res.MonoEq(test.expected) || mayZero != test.mayZero {
			t.Errorf("%s %% %s = (%s, %v), expected (%s, %v)\n",
				test.a, test.b, res, mayZero, test.expected, test.mayZero)
		}
	}
}

func TestIntervalCmp(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()

	type b = FiniteBound
	type M = MinusInfinity

	tests := []struct {
		op             cfg.Cond
		a, b           Interval
		tl, tr, fl, fr Interval
	}{
		{
			cfg.CondLt, int(b(0), b(9)), int(b(3), b(3)),
			int(b(0), b(2)), int(b(3), b(3)),
			int(b(3), b(9)), int(b(3), b(3)),
		},
		{
			cfg.CondGt, int(b(0), b(9)), int(b(3), b(3)),
			int(b(4), b(9)), int(b(3), b(3)),
			int(b(0), b(3)), int(b(3), b(3)),
		},
		{
			cfg.CondGe, int(M{}, b(9)), int(b(0), b(0)),
			int(b(0), b(9)), int(b(0), b(0)),
			int(M{}, b(-1)), int(b(0), b(0)),
		},
		{
			cfg.CondEq, int(b(0), b(9)), int(b(5), b(20)),
			int(b(5), b(9)), int(b(5), b(9)),
			int(b(0), b(9)), int(b(5), b(20)),
		},
		{
			cfg.CondNe, int(b(0), b(5)), int(b(5), b(5)),
			int(b(0), b(4)), int(b(5), b(5)),
			int(b(5), b(5)), int(b(5), b(5)),
		},
		{
			cfg.CondLt, int(b(5), b(5)), int(b(1), b(2)),
			bot, bot,
			int(b(5), b(5)), int(b(1), b(2)),
		},
		{
			cfg.CondEq, int(b(0), b(1)), int(b(5), b(6)),
			bot, bot,
			int(b(0), b(1)), int(b(5), b(6)),
		},
	}

	for _, test := range tests {
		wt, wf := test.a.Cmp(test.op, test.b)
		check := func(label string, got, expected Interval) {
			if !got.MonoEq(expected) {
				t.Errorf("%s %s %s: %s = %s, expected %s\n",
					test.a, test.op, test.b, label, got, expected)
			}
		}
		check("true left", wt.Left, test.tl)
		check("true right", wt.Right, test.tr)
		check("false left", wf.Left, test.fl)
		check("false right", wf.Right, test.fr)
	}
}

func TestIntervalWiden(t *testing.T) {
	int := Create().Element().Interval
	bot := Create().Element().IntervalBot()

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Interval
	}{
		{bot, int(b(0), b(1)), int(b(0), b(1))},
		{int(b(0), b(1)), bot, int(b(0), b(1))},
		{int(b(0), b(1)), int(b(0), b(2)), int(b(0), P{})},
		{int(b(0), b(2)), int(b(-1), b(2)), int(M{}, b(2))},
		{int(b(0), b(2)), int(b(-1), b(3)), int(M{}, P{})},
		{int(b(0), b(5)), int(b(0), b(5)), int(b(0), b(5))},
		{int(b(0), b(5)), int(b(1), b(4)), int(b(0), b(5))},
	}

	for _, test := range tests {
		res := test.a.MonoWiden(test.b)
		if !res.MonoEq(test.expected) {
			t.Errorf("%s ∇ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}

		if !test.a.MonoLeq(res) || !test.b.MonoLeq(res) {
			t.Errorf("%s ∇ %s = %s is not an upper bound\n", test.a, test.b, res)
		}
	}
}
