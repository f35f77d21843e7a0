package cfg

import (
	"fmt"
	"strings"
)

// Type is the primitive type annotation carried by typed instructions.
// Array operations carry the element type.
type Type string

const (
	TInt     Type = "int"
	TBoolean Type = "boolean"
	TChar    Type = "char"
	TShort   Type = "short"
	TRef     Type = "ref"
)

// BinOp enumerates the arithmetic operators of Binary instructions.
type BinOp string

const (
	OpAdd BinOp = "add"
	OpSub BinOp = "sub"
	OpMul BinOp = "mul"
	OpDiv BinOp = "div"
	OpRem BinOp = "rem"
)

// Cond enumerates branch conditions. The is/isnot conditions compare
// references (against null for IfZero).
type Cond string

const (
	CondEq    Cond = "eq"
	CondNe    Cond = "ne"
	CondLt    Cond = "lt"
	CondGe    Cond = "ge"
	CondGt    Cond = "gt"
	CondLe    Cond = "le"
	CondIs    Cond = "is"
	CondIsNot Cond = "isnot"
)

// Negate returns the condition that holds exactly when c does not.
func (c Cond) Negate() Cond {
	switch c {
	case CondEq:
		return CondNe
	case CondNe:
		return CondEq
	case CondLt:
		return CondGe
	case CondGe:
		return CondLt
	case CondGt:
		return CondLe
	case CondLe:
		return CondGt
	case CondIs:
		return CondIsNot
	case CondIsNot:
		return CondIs
	}
	panic(fmt.Sprintf("unknown condition %q", string(c)))
}

// Value is a constant operand of a Push instruction. Null represents the
// null reference; otherwise Int holds the (possibly boolean- or
// char-valued) integer constant.
type Value struct {
	Type Type
	Int  int64
	Null bool
}

func (v Value) String() string {
	if v.Null {
		return "null"
	}
	return fmt.Sprintf("%d", v.Int)
}

// Field identifies a static field.
type Field struct {
	Class string
	Name  string
}

func (f Field) String() string {
	return f.Class + "." + f.Name
}

// MethodRef identifies a method by class, name and parameter types.
// Not comparable with ==; use Equal, or key maps through RefHasher.
type MethodRef struct {
	Class  string
	Name   string
	Params []Type
}

func (ref MethodRef) Equal(other MethodRef) bool {
	if ref.Class != other.Class || ref.Name != other.Name ||
		len(ref.Params) != len(other.Params) {
		return false
	}
	for i, p := range ref.Params {
		if p != other.Params[i] {
			return false
		}
	}
	return true
}

func (ref MethodRef) String() string {
	params := make([]string, len(ref.Params))
	for i, p := range ref.Params {
		params[i] = string(p)
	}
	return fmt.Sprintf("%s.%s(%s)", ref.Class, ref.Name, strings.Join(params, ","))
}

// Instruction is the sealed interface of bytecode operations. The variants
// follow the jvm2json encoding.
type Instruction interface {
	fmt.Stringer
	instr()
}

type (
	// Push puts a constant on the operand stack.
	Push struct {
		Value Value
	}

	// Load pushes a local variable.
	Load struct {
		Type  Type
		Index int
	}

	// Store pops into a local variable.
	Store struct {
		Type  Type
		Index int
	}

	// Binary pops two operands and pushes the result of an arithmetic
	// operator. The divisor of div/rem is the topmost operand.
	Binary struct {
		Type Type
		Op   BinOp
	}

	// Incr adds a constant to a local variable in place.
	Incr struct {
		Index  int
		Amount int
	}

	// IfZero pops one value and branches to Target when it compares
	// positively against zero (or null, for reference conditions).
	IfZero struct {
		Cond   Cond
		Target int
	}

	// IfCmp pops two values and branches to Target when the comparison
	// holds. The first-pushed value is the left operand.
	IfCmp struct {
		Cond   Cond
		Target int
	}

	// Goto continues at Target unconditionally.
	Goto struct {
		Target int
	}

	// GetStatic pushes the value of a static field.
	GetStatic struct {
		Field Field
	}

	// New allocates an instance of a class and pushes its reference.
	New struct {
		Class string
	}

	// NewArray pops a length and pushes a reference to a fresh array.
	NewArray struct {
		Type Type
		Dim  int
	}

	// ArrayStore pops value, index and array reference and stores the
	// value at the index.
	ArrayStore struct {
		Type Type
	}

	// ArrayLoad pops index and array reference and pushes the element.
	ArrayLoad struct {
		Type Type
	}

	// ArrayLength pops an array reference and pushes its length.
	ArrayLength struct{}

	// Dup duplicates the top of the operand stack.
	Dup struct {
		Words int
	}

	// Return leaves the current method, with the top of the stack as the
	// result unless Type is empty (void).
	Return struct {
		Type Type
	}

	// InvokeStatic calls a static method. Arguments are popped from the
	// operand stack, last parameter topmost.
	InvokeStatic struct {
		Method MethodRef
	}

	// Cast converts the top of the stack between primitive types.
	Cast struct {
		From Type
		To   Type
	}

	// Throw aborts the method with the exception reference on top of the
	// stack.
	Throw struct{}
)

func (Push) instr()         {}
func (Load) instr()         {}
func (Store) instr()        {}
func (Binary) instr()       {}
func (Incr) instr()         {}
func (IfZero) instr()       {}
func (IfCmp) instr()        {}
func (Goto) instr()         {}
func (GetStatic) instr()    {}
func (New) instr()          {}
func (NewArray) instr()     {}
func (ArrayStore) instr()   {}
func (ArrayLoad) instr()    {}
func (ArrayLength) instr()  {}
func (Dup) instr()          {}
func (Return) instr()       {}
func (InvokeStatic) instr() {}
func (Cast) instr()         {}
func (Throw) instr()        {}

func (i Push) String() string {
	return fmt.Sprintf("push:%s %s", i.Value.Type, i.Value)
}

func (i Load) String() string {
	return fmt.Sprintf("load:%s %d", i.Type, i.Index)
}

func (i Store) String() string {
	return fmt.Sprintf("store:%s %d", i.Type, i.Index)
}

func (i Binary) String() string {
	return fmt.Sprintf("binary:%s %s", i.Type, i.Op)
}

func (i Incr) String() string {
	return fmt.Sprintf("incr %d by %d", i.Index, i.Amount)
}

func (i IfZero) String() string {
	return fmt.Sprintf("ifz %s %d", i.Cond, i.Target)
}

func (i IfCmp) String() string {
	return fmt.Sprintf("if %s %d", i.Cond, i.Target)
}

func (i Goto) String() string {
	return fmt.Sprintf("goto %d", i.Target)
}

func (i GetStatic) String() string {
	return fmt.Sprintf("get static %s", i.Field)
}

func (i New) String() string {
	return fmt.Sprintf("new %s", i.Class)
}

func (i NewArray) String() string {
	return fmt.Sprintf("newarray[%dD] %s", i.Dim, i.Type)
}

func (i ArrayStore) String() string {
	return fmt.Sprintf("array_store %s", i.Type)
}

func (i ArrayLoad) String() string {
	return fmt.Sprintf("array_load:%s", i.Type)
}

func (ArrayLength) String() string {
	return "arraylength"
}

func (i Dup) String() string {
	return fmt.Sprintf("dup %d", i.Words)
}

func (i Return) String() string {
	if i.Type == "" {
		return "return:V"
	}
	return fmt.Sprintf("return:%s", i.Type)
}

func (i InvokeStatic) String() string {
	return fmt.Sprintf("invoke static %s", i.Method)
}

func (i Cast) String() string {
	return fmt.Sprintf("cast %s %s", i.From, i.To)
}

func (Throw) String() string {
	return "throw"
}
