package interp

import (
	"fmt"

	"github.com/cs-au-dk/ibex/analysis/cfg"
)

// DefaultBudget bounds concrete runs that never specify a budget.
const DefaultBudget = 1_000_000

// Interpreter executes bytecode concretely: int64 integers, real
// arrays, and the same failure outcomes the abstract semantics tracks.
// Every outcome a concrete run produces must be contained in the
// abstract classification of the same program, which is what the
// cross-validation tests check.
type Interpreter struct {
	prog   *cfg.Program
	budget int
}

// NewInterpreter binds a program to a concrete machine. Budgets below
// one fall back to DefaultBudget.
func NewInterpreter(prog *cfg.Program, budget int) *Interpreter {
	if budget < 1 {
		budget = DefaultBudget
	}
	return &Interpreter{prog: prog, budget: budget}
}

// cval is a concrete operand: an integer or a reference. A reference
// with no object is null.
type cval struct {
	ref bool
	n   int64
	obj *cobj
}

// cobj is a concrete heap object. Arrays carry their elements.
type cobj struct {
	class string
	isArr bool
	arr   []cval
}

// cframe is a concrete activation record.
type cframe struct {
	method *cfg.Method
	pc     int
	locals map[int]cval
	stack  []cval
}

func (fr *cframe) push(v cval) {
	fr.stack = append(fr.stack, v)
}

func (fr *cframe) pop() cval {
	v := fr.stack[len(fr.stack)-1]
	fr.stack = fr.stack[:len(fr.stack)-1]
	return v
}

func (fr *cframe) need(n int, at int) error {
	if len(fr.stack) < n {
		return fmt.Errorf("operand stack holds %d values, need %d, at offset %d of %s",
			len(fr.stack), n, at, fr.method)
	}
	return nil
}

// Run executes m on the given integer arguments until the run ends in
// one of the real outcomes or the step budget is exhausted, which
// yields OutcomeBudget. Arguments bind to the integer parameters in
// declaration order; reference parameters are bound to null, so runs
// that need populated arrays go through a bytecode harness method
// building them. Malformed bytecode surfaces as an error.
func (I *Interpreter) Run(m *cfg.Method, args ...int64) (Outcome, error) {
	entry, err := entryFrame(m, args)
	if err != nil {
		return "", err
	}
	frames := []*cframe{entry}

	for steps := 0; steps < I.budget; steps++ {
		fr := frames[len(frames)-1]
		at := fr.pc
		if at < 0 || at >= len(fr.method.Code) {
			return "", fmt.Errorf("no instruction at offset %d of %s", at, fr.method)
		}
		fr.pc++

		switch inst := fr.method.Code[at].(type) {
		case cfg.Push:
			if inst.Value.Null {
				fr.push(cval{ref: true})
			} else {
				fr.push(cval{n: inst.Value.Int})
			}

		case cfg.Load:
			v, bound := fr.locals[inst.Index]
			if !bound {
				return "", fmt.Errorf("load of unassigned local %d at offset %d of %s",
					inst.Index, at, fr.method)
			}
			if v.ref != (inst.Type == cfg.TRef) {
				return "", kindError(inst.Type, at, fr.method)
			}
			fr.push(v)

		case cfg.Store:
			if err := fr.need(1, at); err != nil {
				return "", err
			}
			v := fr.pop()
			if v.ref != (inst.Type == cfg.TRef) {
				return "", kindError(inst.Type, at, fr.method)
			}
			fr.locals[inst.Index] = v

		case cfg.Binary:
			if err := fr.need(2, at); err != nil {
				return "", err
			}
			right, left := fr.pop(), fr.pop()
			if left.ref || right.ref {
				return "", kindError(inst.Type, at, fr.method)
			}
			var n int64
			switch inst.Op {
			case cfg.OpAdd:
				n = left.n + right.n
			case cfg.OpSub:
				n = left.n - right.n
			case cfg.OpMul:
				n = left.n * right.n
			case cfg.OpDiv, cfg.OpRem:
				if right.n == 0 {
					return OutcomeDivByZero, nil
				}
				if inst.Op == cfg.OpDiv {
					n = left.n / right.n
				} else {
					n = left.n % right.n
				}
			default:
				return "", fmt.Errorf("unknown operator %q at offset %d of %s",
					string(inst.Op), at, fr.method)
			}
			fr.push(cval{n: n})

		case cfg.Incr:
			v, bound := fr.locals[inst.Index]
			if !bound || v.ref {
				return "", fmt.Errorf("incr of local %d at offset %d of %s",
					inst.Index, at, fr.method)
			}
			v.n += int64(inst.Amount)
			fr.locals[inst.Index] = v

		case cfg.IfZero:
			if err := fr.need(1, at); err != nil {
				return "", err
			}
			v := fr.pop()
			var taken bool
			switch inst.Cond {
			case cfg.CondIs, cfg.CondIsNot:
				if !v.ref {
					return "", kindError(cfg.TRef, at, fr.method)
				}
				taken = (v.obj == nil) == (inst.Cond == cfg.CondIs)
			default:
				if v.ref {
					return "", kindError(cfg.TInt, at, fr.method)
				}
				t, err := condInt(inst.Cond, v.n, 0)
				if err != nil {
					return "", err
				}
				taken = t
			}
			if taken {
				fr.pc = inst.Target
			}

		case cfg.IfCmp:
			if err := fr.need(2, at); err != nil {
				return "", err
			}
			right, left := fr.pop(), fr.pop()
			var taken bool
			switch inst.Cond {
			case cfg.CondIs, cfg.CondIsNot:
				if !left.ref || !right.ref {
					return "", kindError(cfg.TRef, at, fr.method)
				}
				taken = (left.obj == right.obj) == (inst.Cond == cfg.CondIs)
			default:
				if left.ref || right.ref {
					return "", kindError(cfg.TInt, at, fr.method)
				}
				t, err := condInt(inst.Cond, left.n, right.n)
				if err != nil {
					return "", err
				}
				taken = t
			}
			if taken {
				fr.pc = inst.Target
			}

		case cfg.Goto:
			fr.pc = inst.Target

		case cfg.GetStatic:
			// Statics are zero-initialized and never written by the
			// modeled subset; $assertionsDisabled reads as false.
			fr.push(cval{})

		case cfg.New:
			if inst.Class == "java/lang/AssertionError" {
				return OutcomeAssertion, nil
			}
			fr.push(cval{ref: true, obj: &cobj{class: inst.Class}})

		case cfg.NewArray:
			if inst.Dim < 1 {
				return "", fmt.Errorf("allocation of dimension %d at offset %d of %s",
					inst.Dim, at, fr.method)
			}
			if err := fr.need(inst.Dim, at); err != nil {
				return "", err
			}
			counts := make([]int64, inst.Dim)
			for i := inst.Dim - 1; i >= 0; i-- {
				v := fr.pop()
				if v.ref {
					return "", kindError(cfg.TInt, at, fr.method)
				}
				counts[i] = v.n
			}
			for _, c := range counts {
				if c < 0 {
					return OutcomeBounds, nil
				}
			}
			fr.push(cval{ref: true, obj: allocArray(inst.Type, counts)})

		case cfg.ArrayStore:
			if err := fr.need(3, at); err != nil {
				return "", err
			}
			v, idx, base := fr.pop(), fr.pop(), fr.pop()
			if v.ref != (inst.Type == cfg.TRef) || idx.ref {
				return "", kindError(inst.Type, at, fr.method)
			}
			arr, out, err := arrayAt(base, idx.n, at, fr.method)
			if out != "" || err != nil {
				return out, err
			}
			arr.arr[idx.n] = v

		case cfg.ArrayLoad:
			if err := fr.need(2, at); err != nil {
				return "", err
			}
			idx, base := fr.pop(), fr.pop()
			if idx.ref {
				return "", kindError(cfg.TInt, at, fr.method)
			}
			arr, out, err := arrayAt(base, idx.n, at, fr.method)
			if out != "" || err != nil {
				return out, err
			}
			v := arr.arr[idx.n]
			if v.ref != (inst.Type == cfg.TRef) {
				return "", kindError(inst.Type, at, fr.method)
			}
			fr.push(v)

		case cfg.ArrayLength:
			if err := fr.need(1, at); err != nil {
				return "", err
			}
			base := fr.pop()
			if !base.ref {
				return "", kindError(cfg.TRef, at, fr.method)
			}
			if base.obj == nil {
				return OutcomeNilDeref, nil
			}
			if !base.obj.isArr {
				return "", fmt.Errorf("arraylength of %s at offset %d of %s",
					base.obj.class, at, fr.method)
			}
			fr.push(cval{n: int64(len(base.obj.arr))})

		case cfg.Dup:
			if err := fr.need(inst.Words, at); err != nil {
				return "", err
			}
			switch inst.Words {
			case 1:
				fr.push(fr.stack[len(fr.stack)-1])
			case 2:
				v1, v2 := fr.stack[len(fr.stack)-1], fr.stack[len(fr.stack)-2]
				fr.push(v2)
				fr.push(v1)
			default:
				return "", fmt.Errorf("dup of %d words at offset %d of %s",
					inst.Words, at, fr.method)
			}

		case cfg.Return:
			var v cval
			if inst.Type != "" {
				if err := fr.need(1, at); err != nil {
					return "", err
				}
				v = fr.pop()
				if v.ref != (inst.Type == cfg.TRef) {
					return "", kindError(inst.Type, at, fr.method)
				}
			}
			if len(frames) == 1 {
				return OutcomeOK, nil
			}
			frames = frames[:len(frames)-1]
			if inst.Type != "" {
				frames[len(frames)-1].push(v)
			}

		case cfg.InvokeStatic:
			callee, found := I.prog.Lookup(inst.Method)
			if !found {
				return "", fmt.Errorf("unknown method %s at offset %d of %s",
					inst.Method, at, fr.method)
			}
			n := callee.NumParams()
			if err := fr.need(n, at); err != nil {
				return "", err
			}
			locals := make(map[int]cval, n)
			for i := n - 1; i >= 0; i-- {
				locals[i] = fr.pop()
			}
			frames = append(frames, &cframe{method: callee, locals: locals})

		case cfg.Cast:
			if inst.From == cfg.TRef || inst.To == cfg.TRef {
				return "", fmt.Errorf("reference cast at offset %d of %s", at, fr.method)
			}
			if err := fr.need(1, at); err != nil {
				return "", err
			}
			v := fr.pop()
			if v.ref {
				return "", kindError(inst.From, at, fr.method)
			}
			switch inst.To {
			case cfg.TBoolean:
				v.n &= 1
			case cfg.TChar:
				v.n = int64(uint16(v.n))
			case cfg.TShort:
				v.n = int64(int16(v.n))
			}
			fr.push(v)

		case cfg.Throw:
			if err := fr.need(1, at); err != nil {
				return "", err
			}
			v := fr.pop()
			if !v.ref {
				return "", kindError(cfg.TRef, at, fr.method)
			}
			if v.obj == nil {
				return OutcomeNilDeref, nil
			}
			return OutcomeAssertion, nil

		default:
			return "", fmt.Errorf("cannot step %s at offset %d of %s", inst, at, fr.method)
		}
	}

	return OutcomeBudget, nil
}

// entryFrame seeds the entry activation record. Arguments bind to the
// integer parameters in order; reference parameters are null.
func entryFrame(m *cfg.Method, args []int64) (*cframe, error) {
	fr := &cframe{method: m, locals: make(map[int]cval, m.NumParams())}
	next := 0
	for i, t := range m.Ref.Params {
		if t == cfg.TRef {
			fr.locals[i] = cval{ref: true}
			continue
		}
		if next >= len(args) {
			return nil, fmt.Errorf("missing argument for parameter %d of %s", i, m)
		}
		fr.locals[i] = cval{n: args[next]}
		next++
	}
	if next < len(args) {
		return nil, fmt.Errorf("%d arguments for %d integer parameters of %s",
			len(args), next, m)
	}
	return fr, nil
}

// arrayAt checks an array access, yielding the failure outcome for null
// bases and out-of-range indices and an error for non-array objects.
func arrayAt(base cval, idx int64, at int, m *cfg.Method) (*cobj, Outcome, error) {
	if !base.ref {
		return nil, "", kindError(cfg.TRef, at, m)
	}
	if base.obj == nil {
		return nil, OutcomeNilDeref, nil
	}
	if !base.obj.isArr {
		return nil, "", fmt.Errorf("array access to %s at offset %d of %s",
			base.obj.class, at, m)
	}
	if idx < 0 || idx >= int64(len(base.obj.arr)) {
		return nil, OutcomeBounds, nil
	}
	return base.obj, "", nil
}

// allocArray builds a zero-initialized array, recursing on the inner
// dimensions.
func allocArray(t cfg.Type, counts []int64) *cobj {
	arr := &cobj{isArr: true, arr: make([]cval, counts[0])}
	for i := range arr.arr {
		switch {
		case len(counts) > 1:
			arr.arr[i] = cval{ref: true, obj: allocArray(t, counts[1:])}
		case t == cfg.TRef:
			arr.arr[i] = cval{ref: true}
		}
	}
	return arr
}

// condInt decides an integer branch condition.
func condInt(op cfg.Cond, a, b int64) (bool, error) {
	switch op {
	case cfg.CondEq:
		return a == b, nil
	case cfg.CondNe:
		return a != b, nil
	case cfg.CondLt:
		return a < b, nil
	case cfg.CondGe:
		return a >= b, nil
	case cfg.CondGt:
		return a > b, nil
	case cfg.CondLe:
		return a <= b, nil
	}
	return false, fmt.Errorf("condition %s on integers", op)
}

func kindError(t cfg.Type, at int, m *cfg.Method) error {
	return fmt.Errorf("operand does not fit %s at offset %d of %s", t, at, m)
}
