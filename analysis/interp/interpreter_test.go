package interp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cs-au-dk/ibex/analysis/absint"
	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/analysis/config"
	"github.com/cs-au-dk/ibex/analysis/defs"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
	"github.com/cs-au-dk/ibex/utils"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
)

func program(t *testing.T, methods ...*cfg.Method) *cfg.Program {
	t.Helper()
	prog, err := cfg.NewProgram(methods...)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

// fixpoint drives the stepper to a fixpoint with deterministic FIFO
// processing. The widening delay only matters for the interval domain;
// the finite-height domains converge by joining alone.
func fixpoint(t *testing.T, a *AbstractInterpreter, entry absint.State) *absint.Result {
	t.Helper()
	conf := config.Default()
	conf.Order = config.OrderFIFO
	conf.WideningDelay = 2
	res, err := absint.StaticAnalysis(context.Background(),
		absint.AnalysisCtxt{Config: conf, Stepper: a}, entry)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func expectOutcomes(t *testing.T, a *AbstractInterpreter, l defs.Loc, want ...Outcome) {
	t.Helper()
	if diff := cmp.Diff(want, a.Outcomes().At(l)); diff != "" {
		t.Errorf("outcomes at %s mismatch (-want +got):\n%s", l, diff)
	}
}

func expectClassification(t *testing.T, res *absint.Result, a *AbstractInterpreter, want ...Outcome) {
	t.Helper()
	if diff := cmp.Diff(Classification(want), Classify(res, a.Outcomes())); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryState(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Entry", "enter",
		cfg.TInt, cfg.TRef, cfg.TBoolean, cfg.TChar, cfg.TShort).
		ReturnVoid().
		MustBuild()
	a := NewAbstractInterpreter(program(t, m), IntervalDomain())

	st := a.EntryState(m)
	if st.Loc() != (defs.Loc{Method: m, Offset: 0}) {
		t.Errorf("entry at %s, expected offset 0", st.Loc())
	}
	if st.CallDepth() != 1 {
		t.Errorf("call depth %d at entry, expected 1", st.CallDepth())
	}
	fr := st.ActiveFrame()
	if fr.StackLen() != 0 {
		t.Errorf("entry operand stack holds %d values", fr.StackLen())
	}

	expectLocal := func(index int, want L.Value) {
		t.Helper()
		if v, bound := fr.Local(index); !bound || !v.Eq(want) {
			t.Errorf("local %d = %v, expected %s", index, v, want)
		}
	}
	expectLocal(0, Elements().IntervalTop())
	expectLocal(2, Elements().IntervalFinite(0, 1))
	expectLocal(3, Elements().IntervalFinite(0, 65535))
	expectLocal(4, Elements().IntervalFinite(-32768, 32767))

	v, bound := fr.Local(1)
	if !bound {
		t.Fatalf("reference parameter unbound at entry")
	}
	r, ok := v.(L.Ref)
	if !ok {
		t.Fatalf("local 1 = %v, expected a points-to set", v)
	}
	if !r.MayNil() {
		t.Errorf("an unknown reference parameter must admit null")
	}
	sites := r.NonNil().Entries()
	if len(sites) != 1 {
		t.Fatalf("local 1 points to %d sites, expected 1", len(sites))
	}
	held, found := st.HeapGet(sites[0])
	if !found {
		t.Fatalf("no summary allocated at %s", sites[0])
	}
	arr, ok := held.(L.Obj)
	if !ok {
		t.Fatalf("%s holds %v, expected an array summary", sites[0], held)
	}
	if !arr.Elem().Eq(Elements().IntervalTop()) {
		t.Errorf("unknown array elements = %s, expected ⊤", arr.Elem())
	}
	wantLen := Elements().Interval(L.FiniteBound(0), L.PlusInfinity{})
	if !arr.Length().Eq(wantLen) {
		t.Errorf("unknown array length = %s, expected %s", arr.Length(), wantLen)
	}

	// Provided arguments override the defaults.
	st = a.EntryState(m, Elements().IntervalConst(7))
	if v, bound := st.ActiveFrame().Local(0); !bound || !v.Eq(Elements().IntervalConst(7)) {
		t.Errorf("local 0 = %v, expected the provided constant", v)
	}
}

func TestStepDiv(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Arith", "div", cfg.TInt).
		Push(10).         // 0
		Load(0).          // 1
		Div().            // 2
		Return(cfg.TInt). // 3
		MustBuild()
	mkLoc := func(off int) defs.Loc { return defs.Loc{Method: m, Offset: off} }

	a := NewAbstractInterpreter(program(t, m), SignsDomain())
	res := fixpoint(t, a, a.EntryState(m))

	expectOutcomes(t, a, mkLoc(2), OutcomeDivByZero)
	expectOutcomes(t, a, mkLoc(3), OutcomeOK)

	st, found := res.At(mkLoc(2))
	if !found {
		t.Fatal("the division was never reached")
	}
	divisor, fr := st.ActiveFrame().Pop()
	dividend, _ := fr.Pop()
	if !divisor.Eq(Elements().SignsTop()) {
		t.Errorf("divisor = %s, expected ⊤", divisor)
	}
	if !dividend.Eq(Elements().Sign(10)) {
		t.Errorf("dividend = %s, expected {+}", dividend)
	}

	expectClassification(t, res, a, OutcomeOK, OutcomeDivByZero)
	if got := Classify(res, a.Outcomes()); got.May(OutcomeNilDeref) {
		t.Errorf("classification %s admits a null pointer", got)
	}
}

func TestStepDivByDefiniteZero(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Arith", "divZero").
		Push(1).          // 0
		Push(0).          // 1
		Div().            // 2
		Return(cfg.TInt). // 3
		MustBuild()
	mkLoc := func(off int) defs.Loc { return defs.Loc{Method: m, Offset: off} }

	a := NewAbstractInterpreter(program(t, m), FlatIntDomain())
	res := fixpoint(t, a, a.EntryState(m))

	expectOutcomes(t, a, mkLoc(2), OutcomeDivByZero)
	if _, found := res.At(mkLoc(3)); found {
		t.Errorf("a division by a definite zero still has a successor")
	}
	expectClassification(t, res, a, OutcomeDivByZero)
}

func TestStepJoin(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Branch", "pick", cfg.TInt).
		Load(0).               // 0
		IfZero(cfg.CondGe, 4). // 1
		Push(-1).              // 2
		Goto(5).               // 3
		Push(1).               // 4
		Store(1).              // 5
		Load(1).               // 6
		Return(cfg.TInt).      // 7
		MustBuild()

	a := NewAbstractInterpreter(program(t, m), SignsDomain())
	res := fixpoint(t, a, a.EntryState(m))

	st, found := res.At(defs.Loc{Method: m, Offset: 5})
	if !found {
		t.Fatal("the join point was never reached")
	}
	want := Elements().Sign(-1).Join(Elements().Sign(1))
	if top := st.ActiveFrame().Top(); !top.Eq(want) {
		t.Errorf("joined operand = %s, expected %s", top, want)
	}
	expectClassification(t, res, a, OutcomeOK)
}

func TestStepCall(t *testing.T) {
	add := cfg.NewMethodBuilder("cases/Call", "add", cfg.TInt, cfg.TInt).
		Load(0).          // 0
		Load(1).          // 1
		Add().            // 2
		Return(cfg.TInt). // 3
		MustBuild()
	main := cfg.NewMethodBuilder("cases/Call", "main").
		Push(3).                                        // 0
		Push(4).                                        // 1
		Invoke("cases/Call", "add", cfg.TInt, cfg.TInt). // 2
		Return(cfg.TInt).                               // 3
		MustBuild()

	a := NewAbstractInterpreter(program(t, add, main), FlatIntDomain())
	res := fixpoint(t, a, a.EntryState(main))

	entry, found := res.At(defs.Loc{Method: add, Offset: 0})
	if !found {
		t.Fatal("the callee was never entered")
	}
	if entry.CallDepth() != 2 {
		t.Errorf("call depth %d at the callee entry, expected 2", entry.CallDepth())
	}
	if v, bound := entry.ActiveFrame().Local(0); !bound || !v.Eq(Elements().FlatInt(3)) {
		t.Errorf("callee local 0 = %v, expected 3", v)
	}
	if v, bound := entry.ActiveFrame().Local(1); !bound || !v.Eq(Elements().FlatInt(4)) {
		t.Errorf("callee local 1 = %v, expected 4", v)
	}

	ret, found := res.At(defs.Loc{Method: main, Offset: 3})
	if !found {
		t.Fatal("the caller never resumed")
	}
	if ret.CallDepth() != 1 {
		t.Errorf("call depth %d after the return, expected 1", ret.CallDepth())
	}
	if top := ret.ActiveFrame().Top(); !top.Eq(Elements().FlatInt(7)) {
		t.Errorf("returned value = %s, expected 7", top)
	}

	// Only the return of the outermost frame terminates a computation.
	expectOutcomes(t, a, defs.Loc{Method: main, Offset: 3}, OutcomeOK)
	expectOutcomes(t, a, defs.Loc{Method: add, Offset: 3})
	expectClassification(t, res, a, OutcomeOK)
}

func TestStepBranchPruning(t *testing.T) {
	taken := cfg.NewMethodBuilder("cases/Branch", "constTrue").
		Push(0).               // 0
		IfZero(cfg.CondEq, 3). // 1
		ReturnVoid().          // 2: infeasible
		ReturnVoid().          // 3
		MustBuild()
	skipped := cfg.NewMethodBuilder("cases/Branch", "constFalse").
		Push(1).               // 0
		IfZero(cfg.CondEq, 3). // 1
		ReturnVoid().          // 2
		ReturnVoid().          // 3: infeasible
		MustBuild()
	a := NewAbstractInterpreter(program(t, taken, skipped), FlatIntDomain())

	res := fixpoint(t, a, a.EntryState(taken))
	if _, found := res.At(defs.Loc{Method: taken, Offset: 2}); found {
		t.Errorf("the infeasible fallthrough was explored")
	}
	if _, found := res.At(defs.Loc{Method: taken, Offset: 3}); !found {
		t.Errorf("the definite branch was not explored")
	}

	res = fixpoint(t, a, a.EntryState(skipped))
	if _, found := res.At(defs.Loc{Method: skipped, Offset: 3}); found {
		t.Errorf("the infeasible branch was explored")
	}
	if _, found := res.At(defs.Loc{Method: skipped, Offset: 2}); !found {
		t.Errorf("the definite fallthrough was not explored")
	}
}

func TestStepRefCompare(t *testing.T) {
	same := cfg.NewMethodBuilder("cases/Refs", "same", cfg.TRef).
		LoadRef(0).           // 0
		LoadRef(0).           // 1
		IfCmp(cfg.CondIs, 5). // 2
		Push(0).              // 3
		Return(cfg.TInt).     // 4
		Push(1).              // 5
		Return(cfg.TInt).     // 6
		MustBuild()
	nulls := cfg.NewMethodBuilder("cases/Refs", "nulls").
		PushNull().           // 0
		PushNull().           // 1
		IfCmp(cfg.CondIs, 5). // 2
		Push(0).              // 3: infeasible
		Return(cfg.TInt).     // 4
		Push(1).              // 5
		Return(cfg.TInt).     // 6
		MustBuild()
	a := NewAbstractInterpreter(program(t, same, nulls), SignsDomain())

	// One allocation site summarizes many objects, so two references
	// into it may be equal or distinct; both branches stay live.
	res := fixpoint(t, a, a.EntryState(same))
	for _, off := range []int{3, 5} {
		if _, found := res.At(defs.Loc{Method: same, Offset: off}); !found {
			t.Errorf("offset %d of an undecided comparison was not explored", off)
		}
	}

	res = fixpoint(t, a, a.EntryState(nulls))
	if _, found := res.At(defs.Loc{Method: nulls, Offset: 3}); found {
		t.Errorf("null compared unequal to null")
	}
	if _, found := res.At(defs.Loc{Method: nulls, Offset: 5}); !found {
		t.Errorf("null never compared equal to null")
	}
}

func TestStepAssertion(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Assert", "assertPos", cfg.TInt).
		GetStatic("cases/Assert", "$assertionsDisabled"). // 0
		IfZero(cfg.CondNe, 7).                            // 1
		Load(0).                                          // 2
		IfZero(cfg.CondGt, 7).                            // 3
		New("java/lang/AssertionError").                  // 4
		Dup().                                            // 5: not reached
		Throw().                                          // 6: not reached
		Push(0).                                          // 7
		Return(cfg.TInt).                                 // 8
		MustBuild()
	mkLoc := func(off int) defs.Loc { return defs.Loc{Method: m, Offset: off} }

	a := NewAbstractInterpreter(program(t, m), SignsDomain())
	res := fixpoint(t, a, a.EntryState(m))

	expectOutcomes(t, a, mkLoc(4), OutcomeAssertion)
	for _, off := range []int{5, 6} {
		if _, found := res.At(mkLoc(off)); found {
			t.Errorf("offset %d past the failed construction was explored", off)
		}
	}
	expectClassification(t, res, a, OutcomeOK, OutcomeAssertion)
}

func TestStepArrays(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Arrays", "storeAt", cfg.TInt).
		Push(3).              // 0
		NewArray(cfg.TInt).   // 1
		StoreRef(1).          // 2
		LoadRef(1).           // 3
		Load(0).              // 4
		Push(7).              // 5
		ArrayStore(cfg.TInt). // 6
		LoadRef(1).           // 7
		Push(1).              // 8
		ArrayLoad(cfg.TInt).  // 9
		Return(cfg.TInt).     // 10
		MustBuild()
	mkLoc := func(off int) defs.Loc { return defs.Loc{Method: m, Offset: off} }

	a := NewAbstractInterpreter(program(t, m), IntervalDomain())
	res := fixpoint(t, a, a.EntryState(m))

	// The unknown index may fall outside [0, 3); the constant index
	// cannot.
	expectOutcomes(t, a, mkLoc(6), OutcomeBounds)
	expectOutcomes(t, a, mkLoc(9))

	st, found := res.At(mkLoc(10))
	if !found {
		t.Fatal("the load was never completed")
	}
	if top := st.ActiveFrame().Top(); !top.Eq(Elements().IntervalFinite(0, 7)) {
		t.Errorf("loaded element = %s, expected the join of the initial 0 and the stored 7", top)
	}
	expectClassification(t, res, a, OutcomeOK, OutcomeBounds)
}

func TestStepArrayNegativeLength(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Arrays", "negLen").
		Push(-1).           // 0
		NewArray(cfg.TInt). // 1
		ArrayLength().      // 2: infeasible
		Return(cfg.TInt).   // 3
		MustBuild()
	mkLoc := func(off int) defs.Loc { return defs.Loc{Method: m, Offset: off} }

	a := NewAbstractInterpreter(program(t, m), IntervalDomain())
	res := fixpoint(t, a, a.EntryState(m))

	expectOutcomes(t, a, mkLoc(1), OutcomeBounds)
	if _, found := res.At(mkLoc(2)); found {
		t.Errorf("an allocation of definitely negative length still has a successor")
	}
	expectClassification(t, res, a, OutcomeBounds)
}

func TestStepNullPointer(t *testing.T) {
	definite := cfg.NewMethodBuilder("cases/Null", "nullLen").
		PushNull().       // 0
		ArrayLength().    // 1
		Return(cfg.TInt). // 2: infeasible
		MustBuild()
	maybe := cfg.NewMethodBuilder("cases/Null", "paramLen", cfg.TRef).
		LoadRef(0).       // 0
		ArrayLength().    // 1
		Return(cfg.TInt). // 2
		MustBuild()
	a := NewAbstractInterpreter(program(t, definite, maybe), SignsDomain())

	res := fixpoint(t, a, a.EntryState(definite))
	expectOutcomes(t, a, defs.Loc{Method: definite, Offset: 1}, OutcomeNilDeref)
	if _, found := res.At(defs.Loc{Method: definite, Offset: 2}); found {
		t.Errorf("dereferencing a definite null still has a successor")
	}
	expectClassification(t, res, a, OutcomeNilDeref)

	res = fixpoint(t, a, a.EntryState(maybe))
	expectOutcomes(t, a, defs.Loc{Method: maybe, Offset: 1}, OutcomeNilDeref)
	st, found := res.At(defs.Loc{Method: maybe, Offset: 2})
	if !found {
		t.Fatal("the non-null paths were pruned")
	}
	wantLen := Elements().Sign(0).Join(Elements().Sign(1))
	if top := st.ActiveFrame().Top(); !top.Eq(wantLen) {
		t.Errorf("length of an unknown array = %s, expected %s", top, wantLen)
	}
	expectClassification(t, res, a, OutcomeOK, OutcomeNilDeref)
}

func TestStepGetStatic(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Config", "limit").
		GetStatic("cases/Config", "limit"). // 0
		Return(cfg.TInt).                   // 1
		MustBuild()

	a := NewAbstractInterpreter(program(t, m), SignsDomain())
	res := fixpoint(t, a, a.EntryState(m))

	st, found := res.At(defs.Loc{Method: m, Offset: 1})
	if !found {
		t.Fatal("the read was never completed")
	}
	if top := st.ActiveFrame().Top(); !top.Eq(Elements().SignsTop()) {
		t.Errorf("an unwritten static field reads %s, expected ⊤", top)
	}
	expectClassification(t, res, a, OutcomeOK)
}

func TestStepCast(t *testing.T) {
	b := cfg.NewMethodBuilder("cases/Casts", "clamp", cfg.TInt)
	b.Load(0)                                       // 0
	b.Emit(cfg.Cast{From: cfg.TInt, To: cfg.TChar}) // 1
	b.Return(cfg.TInt)                              // 2
	wide := b.MustBuild()

	b = cfg.NewMethodBuilder("cases/Casts", "fits")
	b.Push(65)                                      // 0
	b.Emit(cfg.Cast{From: cfg.TInt, To: cfg.TChar}) // 1
	b.Return(cfg.TInt)                              // 2
	narrow := b.MustBuild()
	a := NewAbstractInterpreter(program(t, wide, narrow), IntervalDomain())

	res := fixpoint(t, a, a.EntryState(wide))
	st, _ := res.At(defs.Loc{Method: wide, Offset: 2})
	if top := st.ActiveFrame().Top(); !top.Eq(Elements().IntervalFinite(0, 65535)) {
		t.Errorf("a possibly wrapping cast yields %s, expected the full char range", top)
	}

	res = fixpoint(t, a, a.EntryState(narrow))
	st, _ = res.At(defs.Loc{Method: narrow, Offset: 2})
	if top := st.ActiveFrame().Top(); !top.Eq(Elements().IntervalConst(65)) {
		t.Errorf("a fitting cast yields %s, expected the value unchanged", top)
	}
}

func TestStepThrow(t *testing.T) {
	boom := cfg.NewMethodBuilder("cases/Throw", "boom").
		New("cases/Boom"). // 0
		Throw().           // 1
		MustBuild()
	rethrow := cfg.NewMethodBuilder("cases/Throw", "rethrow", cfg.TRef).
		LoadRef(0). // 0
		Throw().    // 1
		MustBuild()
	a := NewAbstractInterpreter(program(t, boom, rethrow), SignsDomain())

	res := fixpoint(t, a, a.EntryState(boom))
	expectOutcomes(t, a, defs.Loc{Method: boom, Offset: 1}, OutcomeAssertion)
	expectClassification(t, res, a, OutcomeAssertion)

	res = fixpoint(t, a, a.EntryState(rethrow))
	expectOutcomes(t, a, defs.Loc{Method: rethrow, Offset: 1}, OutcomeAssertion, OutcomeNilDeref)
	expectClassification(t, res, a, OutcomeAssertion, OutcomeNilDeref)
}

func TestStepDup(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Arith", "square").
		Push(2).          // 0
		Dup().            // 1
		Mul().            // 2
		Return(cfg.TInt). // 3
		MustBuild()

	a := NewAbstractInterpreter(program(t, m), FlatIntDomain())
	res := fixpoint(t, a, a.EntryState(m))

	st, found := res.At(defs.Loc{Method: m, Offset: 3})
	if !found {
		t.Fatal("the product was never computed")
	}
	if top := st.ActiveFrame().Top(); !top.Eq(Elements().FlatInt(4)) {
		t.Errorf("squared value = %s, expected 4", top)
	}
	expectClassification(t, res, a, OutcomeOK)
}

func TestStepFailureRecoverable(t *testing.T) {
	under := cfg.NewMethodBuilder("cases/Broken", "underflow").
		Div().            // 0: empty operand stack
		Return(cfg.TInt). // 1
		MustBuild()
	missing := cfg.NewMethodBuilder("cases/Broken", "callsMissing").
		Invoke("cases/Gone", "nope"). // 0
		ReturnVoid().                 // 1
		MustBuild()
	a := NewAbstractInterpreter(program(t, under, missing), FlatIntDomain())

	res := fixpoint(t, a, a.EntryState(under))
	if res.Status() != absint.StatusConverged {
		t.Errorf("status %s, a step failure is not fatal", res.Status())
	}
	failures := res.Failures()
	if len(failures) != 1 {
		t.Fatalf("%d failed locations, expected 1", len(failures))
	}
	var sf *absint.StepFailure
	l := defs.Loc{Method: under, Offset: 0}
	if !errors.As(failures[l], &sf) {
		t.Fatalf("failure %v is not a step failure", failures[l])
	}
	if sf.Loc != l {
		t.Errorf("failure at %s, expected %s", sf.Loc, l)
	}
	if _, found := res.At(defs.Loc{Method: under, Offset: 1}); found {
		t.Errorf("the failed step still produced a successor")
	}
	expectClassification(t, res, a)

	res = fixpoint(t, a, a.EntryState(missing))
	if len(res.Failures()) != 1 {
		t.Errorf("%d failed locations, expected 1", len(res.Failures()))
	}
}

func TestStepLoopSigns(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Loop", "count").
		Push(0).               // 0
		Store(0).              // 1
		Load(0).               // 2
		Push(10).              // 3
		IfCmp(cfg.CondLt, 6).  // 4
		ReturnVoid().          // 5
		Incr(0, 1).            // 6
		Goto(2).               // 7
		MustBuild()

	a := NewAbstractInterpreter(program(t, m), SignsDomain())
	res := fixpoint(t, a, a.EntryState(m))

	st, found := res.At(defs.Loc{Method: m, Offset: 2})
	if !found {
		t.Fatal("the loop head was never reached")
	}
	want := Elements().Sign(0).Join(Elements().Sign(1))
	if v, bound := st.ActiveFrame().Local(0); !bound || !v.Eq(want) {
		t.Errorf("loop counter = %v, expected %s", v, want)
	}
	expectClassification(t, res, a, OutcomeOK)
}

func TestStepLoopWidening(t *testing.T) {
	m := cfg.NewMethodBuilder("cases/Loop", "count").
		Push(0).              // 0
		Store(0).             // 1
		Load(0).              // 2
		Push(10).             // 3
		IfCmp(cfg.CondLt, 6). // 4
		ReturnVoid().         // 5
		Incr(0, 1).           // 6
		Goto(2).              // 7
		MustBuild()

	a := NewAbstractInterpreter(program(t, m), IntervalDomain())
	res := fixpoint(t, a, a.EntryState(m))

	if res.Status() != absint.StatusConverged {
		t.Fatalf("status %s, expected widening to force convergence", res.Status())
	}
	st, _ := res.At(defs.Loc{Method: m, Offset: 2})
	want := Elements().Interval(L.FiniteBound(0), L.PlusInfinity{})
	if v, bound := st.ActiveFrame().Local(0); !bound || !v.Eq(want) {
		t.Errorf("loop counter = %v, expected %s", v, want)
	}
	expectClassification(t, res, a, OutcomeOK)
}

func TestClassifyScope(t *testing.T) {
	div := cfg.NewMethodBuilder("cases/Scope", "div", cfg.TInt).
		Push(10).         // 0
		Load(0).          // 1
		Div().            // 2
		Return(cfg.TInt). // 3
		MustBuild()
	pure := cfg.NewMethodBuilder("cases/Scope", "pure").
		Push(1).          // 0
		Return(cfg.TInt). // 1
		MustBuild()
	a := NewAbstractInterpreter(program(t, div, pure), SignsDomain())

	res := fixpoint(t, a, a.EntryState(div))
	cls := Classify(res, a.Outcomes())
	if got := cls.String(); got != "{ok, divide by zero}" {
		t.Errorf("classification renders as %s", got)
	}
	if !cls.May(OutcomeDivByZero) {
		t.Errorf("classification %s misses the division by zero", cls)
	}

	// Outcomes recorded by the earlier run stay out of results that
	// never explored their locations.
	res = fixpoint(t, a, a.EntryState(pure))
	expectClassification(t, res, a, OutcomeOK)
	if cls := Classify(res, a.Outcomes()); cls.May(OutcomeDivByZero) {
		t.Errorf("classification %s leaks an outcome of an unrelated run", cls)
	}
}

func TestVisualizeDot(t *testing.T) {
	utils.SetColorize(false)
	add := cfg.NewMethodBuilder("cases/Call", "add", cfg.TInt, cfg.TInt).
		Load(0).          // 0
		Load(1).          // 1
		Add().            // 2
		Return(cfg.TInt). // 3
		MustBuild()
	main := cfg.NewMethodBuilder("cases/Call", "main").
		Push(3).                                         // 0
		Push(4).                                         // 1
		Invoke("cases/Call", "add", cfg.TInt, cfg.TInt). // 2
		Return(cfg.TInt).                                // 3
		MustBuild()

	a := NewAbstractInterpreter(program(t, add, main), FlatIntDomain())
	res := fixpoint(t, a, a.EntryState(main))

	var buf bytes.Buffer
	if err := res.VisualizeDot(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph LocationGraph",
		`subgraph "cluster_cases/Call.main()"`,
		`subgraph "cluster_cases/Call.add(int,int)"`,
		`"cases/Call.main()-0"`,
		`"cases/Call.add(int,int)-3"`,
		"invoke static cases/Call.add(int,int)",
		`style="bold"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered graph lacks %q", want)
		}
	}
}

func TestOutcomeSummary(t *testing.T) {
	div := cfg.NewMethodBuilder("cases/Summary", "div", cfg.TInt).
		Push(10).Load(0).Div().Return(cfg.TInt).
		MustBuild()
	divZero := cfg.NewMethodBuilder("cases/Summary", "divZero").
		Push(1).Push(0).Div().Return(cfg.TInt).
		MustBuild()
	assertPos := cfg.NewMethodBuilder("cases/Summary", "assertPos", cfg.TInt).
		GetStatic("cases/Summary", "$assertionsDisabled").
		IfZero(cfg.CondNe, 7).
		Load(0).
		IfZero(cfg.CondGt, 7).
		New("java/lang/AssertionError").
		Dup().
		Throw().
		Push(0).
		Return(cfg.TInt).
		MustBuild()
	storeAt := cfg.NewMethodBuilder("cases/Summary", "storeAt", cfg.TInt).
		Push(3).NewArray(cfg.TInt).StoreRef(1).
		LoadRef(1).Load(0).Push(7).ArrayStore(cfg.TInt).
		LoadRef(1).Push(1).ArrayLoad(cfg.TInt).
		Return(cfg.TInt).
		MustBuild()
	nullLen := cfg.NewMethodBuilder("cases/Summary", "nullLen", cfg.TRef).
		LoadRef(0).ArrayLength().Return(cfg.TInt).
		MustBuild()

	prog := program(t, div, divZero, assertPos, storeAt, nullLen)

	buf := &bytes.Buffer{}
	for _, m := range []*cfg.Method{div, divZero, assertPos, storeAt, nullLen} {
		for _, dom := range []Domain{SignsDomain(), FlatIntDomain(), IntervalDomain()} {
			a := NewAbstractInterpreter(prog, dom)
			res := fixpoint(t, a, a.EntryState(m))
			fmt.Fprintf(buf, "%s %s %s\n", m.Ref.Name, dom.Name(), Classify(res, a.Outcomes()))
		}
	}

	g := goldie.New(t)
	g.Assert(t, t.Name(), buf.Bytes())
}
