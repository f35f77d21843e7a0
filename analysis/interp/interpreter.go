package interp

import (
	"fmt"
	"math"

	"github.com/cs-au-dk/ibex/analysis/absint"
	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/analysis/defs"
	L "github.com/cs-au-dk/ibex/analysis/lattice"
	loc "github.com/cs-au-dk/ibex/analysis/location"
)

// AbstractInterpreter steps bytecode abstractly over one integer
// abstraction. It implements the engine's Stepper contract; failure
// outcomes the abstraction cannot rule out are recorded per location in
// an Outcomes aggregate as stepping proceeds.
type AbstractInterpreter struct {
	prog     *cfg.Program
	dom      Domain
	outcomes *Outcomes
}

// NewAbstractInterpreter binds a program to an integer abstraction.
func NewAbstractInterpreter(prog *cfg.Program, dom Domain) *AbstractInterpreter {
	return &AbstractInterpreter{
		prog:     prog,
		dom:      dom,
		outcomes: newOutcomes(),
	}
}

// Domain returns the bound integer abstraction.
func (a *AbstractInterpreter) Domain() Domain {
	return a.dom
}

// Outcomes returns the aggregate of recorded failure outcomes.
func (a *AbstractInterpreter) Outcomes() *Outcomes {
	return a.outcomes
}

// EntryState builds the initial state for a run of m: a single frame at
// offset 0, locals seeded with the declared parameters, an empty
// operand stack and an empty heap.
//
// Argument values are bound in declaration order. A parameter without a
// provided value defaults to the whole abstraction of its type: the
// domain's unconstrained integer clipped to the value range for
// integer parameters, and a maybe-nil reference to a synthetic
// parameter site summarizing an unknown array for references.
// Parameter sites live at negative offsets, so they never collide with
// the allocation site of an instruction.
func (a *AbstractInterpreter) EntryState(m *cfg.Method, args ...L.Value) absint.State {
	fr := absint.Create().Frame(defs.Loc{Method: m, Offset: 0})

	var sites []loc.AllocationSiteLocation
	for i, t := range m.Ref.Params {
		var v L.Value
		switch {
		case i < len(args):
			v = args[i]
		case t == cfg.TRef:
			site := loc.AllocationSiteLocation{Site: defs.Loc{Method: m, Offset: -(i + 1)}}
			sites = append(sites, site)
			v = Elements().Ref(site, loc.NilLocation{})
		default:
			v = a.typeTop(t)
		}
		fr = fr.UpdateLocal(i, v)
	}

	state := absint.Create().State(fr)
	if len(sites) > 0 {
		nonNeg, _ := a.dom.Cmp(cfg.CondGe, a.dom.Top(), a.dom.Const(0))
		unknown := Elements().Obj(a.dom.Top(), nonNeg.Left)
		for _, site := range sites {
			state = state.HeapUpdate(site, unknown)
		}
	}
	return state
}

// Step advances a state by the instruction at its active frame,
// producing every immediate successor. Paths that cannot continue, such
// as a division by a definite zero or a return from the outermost
// frame, yield no successor; the possible failure is recorded in the
// Outcomes aggregate instead.
func (a *AbstractInterpreter) Step(s absint.State) ([]absint.State, error) {
	fr := s.ActiveFrame()
	l := fr.Loc()

	switch inst := l.Instruction().(type) {
	case cfg.Push:
		var v L.Value
		if inst.Value.Null {
			v = Elements().RefNil()
		} else {
			v = a.dom.Const(inst.Value.Int)
		}
		return []absint.State{s.UpdateFrame(fr.Push(v).Succ())}, nil

	case cfg.Load:
		v, bound := fr.Local(inst.Index)
		if !bound {
			if inst.Type == cfg.TRef {
				return nil, stepFailuref(l, "load of unassigned reference local %d", inst.Index)
			}
			v = a.dom.Top()
		}
		if err := operandKind(l, v, inst.Type); err != nil {
			return nil, err
		}
		return []absint.State{s.UpdateFrame(fr.Push(v).Succ())}, nil

	case cfg.Store:
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		v, fr := fr.Pop()
		if err := operandKind(l, v, inst.Type); err != nil {
			return nil, err
		}
		return []absint.State{s.UpdateFrame(fr.UpdateLocal(inst.Index, v).Succ())}, nil

	case cfg.Binary:
		if err := need(l, fr, 2); err != nil {
			return nil, err
		}
		right, left, fr := fr.Pop2()
		if err := intOperand(l, left); err != nil {
			return nil, err
		}
		if err := intOperand(l, right); err != nil {
			return nil, err
		}
		res, mayZero := a.dom.Binary(inst.Op, left, right)
		if mayZero {
			a.outcomes.record(l, OutcomeDivByZero)
		}
		if a.dom.IsBot(res) {
			return nil, nil
		}
		return []absint.State{s.UpdateFrame(fr.Push(res).Succ())}, nil

	case cfg.Incr:
		v, bound := fr.Local(inst.Index)
		if !bound {
			v = a.dom.Top()
		}
		if err := intOperand(l, v); err != nil {
			return nil, err
		}
		res, _ := a.dom.Binary(cfg.OpAdd, v, a.dom.Const(int64(inst.Amount)))
		return []absint.State{s.UpdateFrame(fr.UpdateLocal(inst.Index, res).Succ())}, nil

	case cfg.IfZero:
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		v, fr := fr.Pop()
		if r, ok := v.(L.Ref); ok {
			isNil, nonNil := r.RefineNil()
			switch inst.Cond {
			case cfg.CondIs:
				return branches(s, fr, l, inst.Target, !isNil.Empty(), !nonNil.Empty()), nil
			case cfg.CondIsNot:
				return branches(s, fr, l, inst.Target, !nonNil.Empty(), !isNil.Empty()), nil
			}
			return nil, stepFailuref(l, "condition %s on a reference", inst.Cond)
		}
		if inst.Cond == cfg.CondIs || inst.Cond == cfg.CondIsNot {
			return nil, stepFailuref(l, "condition %s on an integer", inst.Cond)
		}
		wt, wf := a.dom.Cmp(inst.Cond, v, a.dom.Const(0))
		return branches(s, fr, l, inst.Target, !a.dom.IsBot(wt.Left), !a.dom.IsBot(wf.Left)), nil

	case cfg.IfCmp:
		if err := need(l, fr, 2); err != nil {
			return nil, err
		}
		right, left, fr := fr.Pop2()
		if inst.Cond == cfg.CondIs || inst.Cond == cfg.CondIsNot {
			r1, err := refOperand(l, left)
			if err != nil {
				return nil, err
			}
			r2, err := refOperand(l, right)
			if err != nil {
				return nil, err
			}
			// A shared allocation site summarizes many objects, so two
			// references into it may still differ; only two definite
			// nulls are definitely equal.
			same := !r1.MonoMeet(r2).Empty()
			distinct := !(r1.MustNil() && r2.MustNil())
			if inst.Cond == cfg.CondIs {
				return branches(s, fr, l, inst.Target, same, distinct), nil
			}
			return branches(s, fr, l, inst.Target, distinct, same), nil
		}
		if err := intOperand(l, left); err != nil {
			return nil, err
		}
		if err := intOperand(l, right); err != nil {
			return nil, err
		}
		wt, wf := a.dom.Cmp(inst.Cond, left, right)
		return branches(s, fr, l, inst.Target, !a.dom.IsBot(wt.Left), !a.dom.IsBot(wf.Left)), nil

	case cfg.Goto:
		return []absint.State{s.UpdateFrame(fr.Derive(l.Derive(inst.Target)))}, nil

	case cfg.GetStatic:
		var v L.Value
		if inst.Field.Name == "$assertionsDisabled" {
			// Assertions are enabled under analysis.
			v = a.dom.Const(0)
		} else if held, found := s.HeapGet(loc.GlobalLocation{Field: inst.Field}); found {
			v = held
		} else {
			v = a.dom.Top()
		}
		return []absint.State{s.UpdateFrame(fr.Push(v).Succ())}, nil

	case cfg.New:
		if inst.Class == "java/lang/AssertionError" {
			// The construction is the observable failure; the throw
			// that follows is not stepped.
			a.outcomes.record(l, OutcomeAssertion)
			return nil, nil
		}
		site := loc.AllocationSiteLocation{Site: l}
		s = s.HeapWeakUpdate(site, Elements().Obj(a.dom.Bot(), a.dom.Bot()))
		return []absint.State{s.UpdateFrame(fr.Push(Elements().Ref(site)).Succ())}, nil

	case cfg.NewArray:
		if inst.Dim != 1 {
			return nil, stepFailuref(l, "cannot step a %d-dimensional allocation", inst.Dim)
		}
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		count, fr := fr.Pop()
		if err := intOperand(l, count); err != nil {
			return nil, err
		}
		wt, wf := a.dom.Cmp(cfg.CondLt, count, a.dom.Const(0))
		if !a.dom.IsBot(wt.Left) {
			a.outcomes.record(l, OutcomeBounds)
		}
		length := wf.Left
		if a.dom.IsBot(length) {
			return nil, nil
		}
		var elem L.Value
		if inst.Type == cfg.TRef {
			elem = Elements().RefNil()
		} else {
			elem = a.dom.Const(0)
		}
		site := loc.AllocationSiteLocation{Site: l}
		s = s.HeapWeakUpdate(site, Elements().Obj(elem, length))
		return []absint.State{s.UpdateFrame(fr.Push(Elements().Ref(site)).Succ())}, nil

	case cfg.ArrayStore:
		if err := need(l, fr, 3); err != nil {
			return nil, err
		}
		v, fr := fr.Pop()
		idx, bv, fr := fr.Pop2()
		base, err := refOperand(l, bv)
		if err != nil {
			return nil, err
		}
		if err := intOperand(l, idx); err != nil {
			return nil, err
		}
		if err := operandKind(l, v, inst.Type); err != nil {
			return nil, err
		}
		pointees, dead := a.checkNil(l, base)
		if dead {
			return nil, nil
		}
		arr, err := a.summaries(s, l, pointees)
		if err != nil {
			return nil, err
		}
		if !a.inBounds(l, idx, arr.Length()) {
			return nil, nil
		}
		for _, p := range pointees.Entries() {
			held, _ := s.HeapGet(p)
			s = s.HeapUpdate(p, held.Obj().UpdateElem(v))
		}
		return []absint.State{s.UpdateFrame(fr.Succ())}, nil

	case cfg.ArrayLoad:
		if err := need(l, fr, 2); err != nil {
			return nil, err
		}
		idx, bv, fr := fr.Pop2()
		base, err := refOperand(l, bv)
		if err != nil {
			return nil, err
		}
		if err := intOperand(l, idx); err != nil {
			return nil, err
		}
		pointees, dead := a.checkNil(l, base)
		if dead {
			return nil, nil
		}
		arr, err := a.summaries(s, l, pointees)
		if err != nil {
			return nil, err
		}
		if !a.inBounds(l, idx, arr.Length()) {
			return nil, nil
		}
		elem := arr.Elem()
		if err := operandKind(l, elem, inst.Type); err != nil {
			return nil, err
		}
		return []absint.State{s.UpdateFrame(fr.Push(elem).Succ())}, nil

	case cfg.ArrayLength:
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		v, fr := fr.Pop()
		base, err := refOperand(l, v)
		if err != nil {
			return nil, err
		}
		pointees, dead := a.checkNil(l, base)
		if dead {
			return nil, nil
		}
		arr, err := a.summaries(s, l, pointees)
		if err != nil {
			return nil, err
		}
		return []absint.State{s.UpdateFrame(fr.Push(arr.Length()).Succ())}, nil

	case cfg.Dup:
		switch inst.Words {
		case 1:
			if err := need(l, fr, 1); err != nil {
				return nil, err
			}
			return []absint.State{s.UpdateFrame(fr.Push(fr.Top()).Succ())}, nil
		case 2:
			if err := need(l, fr, 2); err != nil {
				return nil, err
			}
			v1, v2, fr := fr.Pop2()
			return []absint.State{s.UpdateFrame(fr.Push(v2).Push(v1).Push(v2).Push(v1).Succ())}, nil
		}
		return nil, stepFailuref(l, "cannot duplicate %d words", inst.Words)

	case cfg.Return:
		var v L.Value
		if inst.Type != "" {
			if err := need(l, fr, 1); err != nil {
				return nil, err
			}
			v, fr = fr.Pop()
			if err := operandKind(l, v, inst.Type); err != nil {
				return nil, err
			}
		}
		if s.CallDepth() == 1 {
			// The terminated computation is consumed, never stored.
			a.outcomes.record(l, OutcomeOK)
			return nil, nil
		}
		s = s.PopFrame()
		caller := s.ActiveFrame()
		if v != nil {
			caller = caller.Push(v)
		}
		return []absint.State{s.UpdateFrame(caller.Succ())}, nil

	case cfg.InvokeStatic:
		callee, found := a.prog.Lookup(inst.Method)
		if !found {
			return nil, stepFailuref(l, "unknown method %s", inst.Method)
		}
		n := callee.NumParams()
		if err := need(l, fr, n); err != nil {
			return nil, err
		}
		args := make([]L.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i], fr = fr.Pop()
		}
		calleeFr := absint.Create().Frame(defs.Loc{Method: callee, Offset: 0})
		for i, arg := range args {
			calleeFr = calleeFr.UpdateLocal(i, arg)
		}
		// The caller frame stays at the invoke; the matching return
		// resumes it at the following instruction.
		return []absint.State{s.UpdateFrame(fr).PushFrame(calleeFr)}, nil

	case cfg.Cast:
		if inst.From == cfg.TRef || inst.To == cfg.TRef {
			return nil, stepFailuref(l, "cannot cast between reference types")
		}
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		v, fr := fr.Pop()
		if err := intOperand(l, v); err != nil {
			return nil, err
		}
		res := v
		if lo, hi, bounded := typeBounds(inst.To); bounded {
			_, wfLow := a.dom.Cmp(cfg.CondGe, v, a.dom.Const(lo))
			_, wfHigh := a.dom.Cmp(cfg.CondLe, v, a.dom.Const(hi))
			if !a.dom.IsBot(wfLow.Left) || !a.dom.IsBot(wfHigh.Left) {
				// The truncated bits can land anywhere in the target
				// range.
				res = a.clip(a.dom.Top(), lo, hi)
			}
		}
		return []absint.State{s.UpdateFrame(fr.Push(res).Succ())}, nil

	case cfg.Throw:
		if err := need(l, fr, 1); err != nil {
			return nil, err
		}
		v, _ := fr.Pop()
		ex, err := refOperand(l, v)
		if err != nil {
			return nil, err
		}
		if ex.MayNil() {
			a.outcomes.record(l, OutcomeNilDeref)
		}
		if !ex.NonNil().Empty() {
			// Exceptions are never caught under analysis.
			a.outcomes.record(l, OutcomeAssertion)
		}
		return nil, nil

	default:
		if inst == nil {
			return nil, stepFailuref(l, "no instruction at offset %d", l.Offset)
		}
		return nil, stepFailuref(l, "cannot step %s", inst)
	}
}

// checkNil records a possible null dereference when the base may be nil
// and strips the nil location. The flag reports that nothing remains
// and the dereference cannot complete.
func (a *AbstractInterpreter) checkNil(l defs.Loc, base L.Ref) (L.Ref, bool) {
	if base.MayNil() {
		a.outcomes.record(l, OutcomeNilDeref)
	}
	nonNil := base.NonNil()
	return nonNil, nonNil.Empty()
}

// summaries joins the array summaries of every pointee. A pointee
// without an array summary faults the step, as does a summary whose
// length is ⊥, which marks a plain object.
func (a *AbstractInterpreter) summaries(s absint.State, l defs.Loc, pointees L.Ref) (L.Obj, error) {
	var joined L.Obj
	first := true
	refElems := false
	for _, p := range pointees.Entries() {
		held, found := s.HeapGet(p)
		if !found {
			return L.Obj{}, stepFailuref(l, "nothing allocated at %s", p)
		}
		arr, ok := held.(L.Obj)
		if !ok {
			return L.Obj{}, stepFailuref(l, "%s does not hold an array", p)
		}
		_, isRef := arr.Elem().(L.Ref)
		switch {
		case first:
			joined, first, refElems = arr, false, isRef
		case isRef != refElems:
			return L.Obj{}, stepFailuref(l, "mixed element abstractions at %s", p)
		default:
			joined = joined.MonoJoin(arr)
		}
	}
	if a.dom.IsBot(joined.Length()) {
		return L.Obj{}, stepFailuref(l, "array instruction on a plain object")
	}
	return joined, nil
}

// inBounds records a possible out-of-bounds access when the index may
// fall outside [0, length) and reports whether an in-bounds access
// remains feasible.
func (a *AbstractInterpreter) inBounds(l defs.Loc, idx, length L.Value) bool {
	wt, wf := a.dom.Cmp(cfg.CondGe, idx, a.dom.Const(0))
	if !a.dom.IsBot(wf.Left) {
		a.outcomes.record(l, OutcomeBounds)
	}
	wt, wf = a.dom.Cmp(cfg.CondLt, wt.Left, length)
	if !a.dom.IsBot(wf.Left) {
		a.outcomes.record(l, OutcomeBounds)
	}
	return !a.dom.IsBot(wt.Left)
}

// clip refines v to the part that can lie in [lo, hi]. Domains that
// cannot express bounds return v unchanged.
func (a *AbstractInterpreter) clip(v L.Value, lo, hi int64) L.Value {
	wt, _ := a.dom.Cmp(cfg.CondGe, v, a.dom.Const(lo))
	wt, _ = a.dom.Cmp(cfg.CondLe, wt.Left, a.dom.Const(hi))
	return wt.Left
}

// typeTop abstracts every value a primitive type admits.
func (a *AbstractInterpreter) typeTop(t cfg.Type) L.Value {
	if lo, hi, bounded := typeBounds(t); bounded {
		return a.clip(a.dom.Top(), lo, hi)
	}
	return a.dom.Top()
}

// typeBounds gives the value range of the narrow primitive types.
func typeBounds(t cfg.Type) (lo, hi int64, bounded bool) {
	switch t {
	case cfg.TBoolean:
		return 0, 1, true
	case cfg.TChar:
		return 0, 65535, true
	case cfg.TShort:
		return math.MinInt16, math.MaxInt16, true
	}
	return 0, 0, false
}

// branches assembles the successor states of a conditional branch, the
// fallthrough first, matching cfg.Successors.
func branches(s absint.State, fr absint.Frame, l defs.Loc, target int, branch, fall bool) []absint.State {
	succs := []absint.State{}
	if fall {
		succs = append(succs, s.UpdateFrame(fr.Succ()))
	}
	if branch {
		succs = append(succs, s.UpdateFrame(fr.Derive(l.Derive(target))))
	}
	return succs
}

// need faults the step unless the operand stack holds at least n
// values.
func need(l defs.Loc, fr absint.Frame, n int) error {
	if fr.StackLen() < n {
		return stepFailuref(l, "operand stack holds %d values, need %d", fr.StackLen(), n)
	}
	return nil
}

// operandKind checks that a value carries the abstraction the type
// annotation of an instruction expects.
func operandKind(l defs.Loc, v L.Value, t cfg.Type) error {
	if t == cfg.TRef {
		if _, ok := v.(L.Ref); !ok {
			return stepFailuref(l, "expected a reference, got %s", v)
		}
		return nil
	}
	return intOperand(l, v)
}

// intOperand rejects values outside the integer abstractions.
func intOperand(l defs.Loc, v L.Value) error {
	switch v.(type) {
	case L.Ref, L.Obj:
		return stepFailuref(l, "expected an integer, got %s", v)
	}
	return nil
}

// refOperand unpacks a points-to set off the operand stack.
func refOperand(l defs.Loc, v L.Value) (L.Ref, error) {
	if r, ok := v.(L.Ref); ok {
		return r, nil
	}
	return L.Ref{}, stepFailuref(l, "expected a reference, got %s", v)
}

func stepFailuref(l defs.Loc, format string, args ...interface{}) error {
	return &absint.StepFailure{Loc: l, Cause: fmt.Errorf(format, args...)}
}
