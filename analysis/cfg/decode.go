package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// The JSON shapes below follow the jvm2json encoding: one object per class,
// methods with annotated parameter types and a code.bytecode array in which
// the i-th instruction reports offset i.

type classJSON struct {
	Name    string       `json:"name"`
	Methods []methodJSON `json:"methods"`
}

type methodJSON struct {
	Name   string            `json:"name"`
	Params []json.RawMessage `json:"params"`
	Code   *struct {
		Bytecode []json.RawMessage `json:"bytecode"`
	} `json:"code"`
}

type fieldJSON struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

type invokedJSON struct {
	Ref struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	} `json:"ref"`
	Name    string            `json:"name"`
	Args    []json.RawMessage `json:"args"`
	Returns json.RawMessage   `json:"returns"`
}

// instrJSON is the union of the fields of all instruction variants; opr
// selects which ones are meaningful.
type instrJSON struct {
	Opr       string          `json:"opr"`
	Offset    int             `json:"offset"`
	Value     json.RawMessage `json:"value"`
	Type      json.RawMessage `json:"type"`
	Operant   string          `json:"operant"`
	Index     int             `json:"index"`
	Amount    int             `json:"amount"`
	Words     int             `json:"words"`
	Dim       int             `json:"dim"`
	Condition string          `json:"condition"`
	Target    int             `json:"target"`
	Static    *bool           `json:"static"`
	Field     *fieldJSON      `json:"field"`
	Class     string          `json:"class"`
	Access    string          `json:"access"`
	Method    *invokedJSON    `json:"method"`
	From      json.RawMessage `json:"from"`
	To        json.RawMessage `json:"to"`
}

// DecodeProgram decodes a program from a single class object or an array of
// class objects.
func DecodeProgram(r io.Reader) (*Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read program: %w", err)
	}

	var classes []classJSON
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(b, &classes); err != nil {
			return nil, fmt.Errorf("could not unmarshal class array: %w", err)
		}
	} else {
		var cls classJSON
		if err := json.Unmarshal(b, &cls); err != nil {
			return nil, fmt.Errorf("could not unmarshal class: %w", err)
		}
		classes = []classJSON{cls}
	}

	var methods []*Method
	for _, cls := range classes {
		decoded, err := decodeClass(cls)
		if err != nil {
			return nil, err
		}
		methods = append(methods, decoded...)
	}

	return NewProgram(methods...)
}

// DecodeClass decodes the methods of a single class object.
func DecodeClass(r io.Reader) ([]*Method, error) {
	var cls classJSON
	if err := json.NewDecoder(r).Decode(&cls); err != nil {
		return nil, fmt.Errorf("could not unmarshal class: %w", err)
	}
	return decodeClass(cls)
}

func decodeClass(cls classJSON) ([]*Method, error) {
	var methods []*Method
	for _, mj := range cls.Methods {
		m, err := decodeMethod(cls.Name, mj)
		if err != nil {
			return nil, err
		}
		if m != nil {
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// DecodeMethod decodes a single method object belonging to the named class.
func DecodeMethod(class string, r io.Reader) (*Method, error) {
	var mj methodJSON
	if err := json.NewDecoder(r).Decode(&mj); err != nil {
		return nil, fmt.Errorf("could not unmarshal method: %w", err)
	}

	m, err := decodeMethod(class, mj)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("method %s.%s carries no code", class, mj.Name)
	}
	return m, nil
}

// decodeMethod decodes one method. Methods without a body (abstract,
// native) decode to nil.
func decodeMethod(class string, mj methodJSON) (*Method, error) {
	fail := func(err error) (*Method, error) {
		return nil, fmt.Errorf("method %s.%s: %w", class, mj.Name, err)
	}

	params := make([]Type, len(mj.Params))
	for i, raw := range mj.Params {
		t, err := decodeParam(raw)
		if err != nil {
			return fail(fmt.Errorf("parameter %d: %w", i, err))
		}
		params[i] = t
	}

	if mj.Code == nil {
		return nil, nil
	}

	m := &Method{
		Ref:  MethodRef{Class: class, Name: mj.Name, Params: params},
		Code: make([]Instruction, len(mj.Code.Bytecode)),
	}

	for i, raw := range mj.Code.Bytecode {
		ins, off, err := decodeInstruction(raw)
		if err != nil {
			return fail(fmt.Errorf("offset %d: %w", i, err))
		}
		if off != i {
			return fail(fmt.Errorf("instruction %d reports offset %d", i, off))
		}
		m.Code[i] = ins
	}

	if err := validateTargets(m); err != nil {
		return fail(err)
	}

	return m, nil
}

// validateTargets checks that every branch target addresses an instruction.
func validateTargets(m *Method) error {
	for off, ins := range m.Code {
		target, branches := -1, false
		switch ins := ins.(type) {
		case IfZero:
			target, branches = ins.Target, true
		case IfCmp:
			target, branches = ins.Target, true
		case Goto:
			target, branches = ins.Target, true
		}
		if branches && (target < 0 || target >= len(m.Code)) {
			return fmt.Errorf("offset %d: branch target %d outside [0, %d)", off, target, len(m.Code))
		}
	}
	return nil
}

func decodeInstruction(raw json.RawMessage) (Instruction, int, error) {
	var ij instrJSON
	if err := json.Unmarshal(raw, &ij); err != nil {
		return nil, 0, fmt.Errorf("could not unmarshal instruction: %w", err)
	}

	fail := func(err error) (Instruction, int, error) {
		return nil, ij.Offset, fmt.Errorf("%s: %w", ij.Opr, err)
	}

	var ins Instruction
	switch ij.Opr {
	case "push":
		v, err := decodeValue(ij.Value)
		if err != nil {
			return fail(err)
		}
		ins = Push{Value: v}

	case "load", "store":
		t, err := decodeType(ij.Type)
		if err != nil {
			return fail(err)
		}
		if ij.Opr == "load" {
			ins = Load{Type: t, Index: ij.Index}
		} else {
			ins = Store{Type: t, Index: ij.Index}
		}

	case "binary":
		t, err := decodeType(ij.Type)
		if err != nil {
			return fail(err)
		}
		switch op := BinOp(ij.Operant); op {
		case OpAdd, OpSub, OpMul, OpDiv, OpRem:
			ins = Binary{Type: t, Op: op}
		default:
			return fail(fmt.Errorf("unknown operator %q", ij.Operant))
		}

	case "incr":
		ins = Incr{Index: ij.Index, Amount: ij.Amount}

	case "ifz", "if":
		c, err := decodeCond(ij.Condition)
		if err != nil {
			return fail(err)
		}
		if ij.Opr == "ifz" {
			ins = IfZero{Cond: c, Target: ij.Target}
		} else {
			ins = IfCmp{Cond: c, Target: ij.Target}
		}

	case "goto":
		ins = Goto{Target: ij.Target}

	case "get":
		if ij.Static == nil || !*ij.Static {
			return fail(fmt.Errorf("instance field access is not supported"))
		}
		if ij.Field == nil {
			return fail(fmt.Errorf("missing field"))
		}
		ins = GetStatic{Field: Field{Class: ij.Field.Class, Name: ij.Field.Name}}

	case "new":
		ins = New{Class: ij.Class}

	case "newarray":
		t, err := decodeType(ij.Type)
		if err != nil {
			return fail(err)
		}
		ins = NewArray{Type: t, Dim: ij.Dim}

	case "array_store":
		t, err := decodeType(ij.Type)
		if err != nil {
			return fail(err)
		}
		ins = ArrayStore{Type: t}

	case "array_load":
		t, err := decodeType(ij.Type)
		if err != nil {
			return fail(err)
		}
		ins = ArrayLoad{Type: t}

	case "arraylength":
		ins = ArrayLength{}

	case "dup":
		ins = Dup{Words: ij.Words}

	case "return":
		if isNull(ij.Type) {
			ins = Return{}
		} else {
			t, err := decodeType(ij.Type)
			if err != nil {
				return fail(err)
			}
			ins = Return{Type: t}
		}

	case "invoke":
		if ij.Access != "static" {
			return fail(fmt.Errorf("%s dispatch is not supported", ij.Access))
		}
		if ij.Method == nil {
			return fail(fmt.Errorf("missing method"))
		}
		args := make([]Type, len(ij.Method.Args))
		for i, raw := range ij.Method.Args {
			t, err := decodeType(raw)
			if err != nil {
				return fail(fmt.Errorf("argument %d: %w", i, err))
			}
			args[i] = t
		}
		ins = InvokeStatic{Method: MethodRef{
			Class:  ij.Method.Ref.Name,
			Name:   ij.Method.Name,
			Params: args,
		}}

	case "cast":
		from, err := decodeType(ij.From)
		if err != nil {
			return fail(err)
		}
		to, err := decodeType(ij.To)
		if err != nil {
			return fail(err)
		}
		ins = Cast{From: from, To: to}

	case "throw":
		ins = Throw{}

	default:
		return fail(fmt.Errorf("unknown opcode"))
	}

	return ins, ij.Offset, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeParam accepts both annotated parameters ({"type": T, ...}) and bare
// type encodings. Array types carry a "type" field of their own, so only
// kind-less objects are treated as annotation wrappers.
func decodeParam(raw json.RawMessage) (Type, error) {
	var annotated struct {
		Type json.RawMessage `json:"type"`
		Kind string          `json:"kind"`
	}
	if err := json.Unmarshal(raw, &annotated); err == nil &&
		annotated.Kind == "" && !isNull(annotated.Type) {
		return decodeType(annotated.Type)
	}
	return decodeType(raw)
}

// decodeType accepts a type name, a {"base": T} wrapper, or an array kind
// (decoded as a reference).
func decodeType(raw json.RawMessage) (Type, error) {
	if isNull(raw) {
		return "", fmt.Errorf("missing type")
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "int", "integer":
			return TInt, nil
		case "boolean":
			return TBoolean, nil
		case "char":
			return TChar, nil
		case "short":
			return TShort, nil
		case "ref":
			return TRef, nil
		}
		return "", fmt.Errorf("unknown type %q", name)
	}

	var wrapped struct {
		Base json.RawMessage `json:"base"`
		Kind string          `json:"kind"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return "", fmt.Errorf("could not unmarshal type: %w", err)
	}
	if !isNull(wrapped.Base) {
		return decodeType(wrapped.Base)
	}
	if wrapped.Kind == "array" {
		return TRef, nil
	}
	return "", fmt.Errorf("unknown type kind %q", wrapped.Kind)
}

func decodeCond(s string) (Cond, error) {
	switch c := Cond(s); c {
	case CondEq, CondNe, CondLt, CondGe, CondGt, CondLe, CondIs, CondIsNot:
		return c, nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

// decodeValue decodes a push operand: null, or a typed integer, boolean or
// character constant.
func decodeValue(raw json.RawMessage) (Value, error) {
	if isNull(raw) {
		return Value{Type: TRef, Null: true}, nil
	}

	var vj struct {
		Type  json.RawMessage `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &vj); err != nil {
		return Value{}, fmt.Errorf("could not unmarshal value: %w", err)
	}

	t, err := decodeType(vj.Type)
	if err != nil {
		return Value{}, err
	}

	if isNull(vj.Value) {
		return Value{Type: t, Null: true}, nil
	}

	var n int64
	if err := json.Unmarshal(vj.Value, &n); err == nil {
		return Value{Type: t, Int: n}, nil
	}

	var b bool
	if err := json.Unmarshal(vj.Value, &b); err == nil {
		v := Value{Type: t}
		if b {
			v.Int = 1
		}
		return v, nil
	}

	var c string
	if err := json.Unmarshal(vj.Value, &c); err == nil && len([]rune(c)) == 1 {
		return Value{Type: t, Int: int64([]rune(c)[0])}, nil
	}

	return Value{}, fmt.Errorf("unsupported constant %s", string(vj.Value))
}
