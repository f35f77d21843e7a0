package cfg

import "fmt"

// MethodBuilder assembles methods instruction by instruction. It exists so
// tests can state programs directly instead of carrying JSON fixtures.
type MethodBuilder struct {
	ref  MethodRef
	code []Instruction
}

// NewMethodBuilder creates a builder for class.name with the given
// parameter types.
func NewMethodBuilder(class, name string, params ...Type) *MethodBuilder {
	return &MethodBuilder{ref: MethodRef{Class: class, Name: name, Params: params}}
}

// Emit appends an instruction and returns its offset.
func (b *MethodBuilder) Emit(ins Instruction) int {
	b.code = append(b.code, ins)
	return len(b.code) - 1
}

func (b *MethodBuilder) emit(ins Instruction) *MethodBuilder {
	b.Emit(ins)
	return b
}

// Offset returns the offset the next emitted instruction will get.
func (b *MethodBuilder) Offset() int {
	return len(b.code)
}

func (b *MethodBuilder) Push(n int64) *MethodBuilder {
	return b.emit(Push{Value: Value{Type: TInt, Int: n}})
}

func (b *MethodBuilder) PushBool(v bool) *MethodBuilder {
	n := int64(0)
	if v {
		n = 1
	}
	return b.emit(Push{Value: Value{Type: TBoolean, Int: n}})
}

func (b *MethodBuilder) PushNull() *MethodBuilder {
	return b.emit(Push{Value: Value{Type: TRef, Null: true}})
}

func (b *MethodBuilder) Load(index int) *MethodBuilder {
	return b.emit(Load{Type: TInt, Index: index})
}

func (b *MethodBuilder) Store(index int) *MethodBuilder {
	return b.emit(Store{Type: TInt, Index: index})
}

func (b *MethodBuilder) LoadRef(index int) *MethodBuilder {
	return b.emit(Load{Type: TRef, Index: index})
}

func (b *MethodBuilder) StoreRef(index int) *MethodBuilder {
	return b.emit(Store{Type: TRef, Index: index})
}

func (b *MethodBuilder) Add() *MethodBuilder { return b.emit(Binary{Type: TInt, Op: OpAdd}) }
func (b *MethodBuilder) Sub() *MethodBuilder { return b.emit(Binary{Type: TInt, Op: OpSub}) }
func (b *MethodBuilder) Mul() *MethodBuilder { return b.emit(Binary{Type: TInt, Op: OpMul}) }
func (b *MethodBuilder) Div() *MethodBuilder { return b.emit(Binary{Type: TInt, Op: OpDiv}) }
func (b *MethodBuilder) Rem() *MethodBuilder { return b.emit(Binary{Type: TInt, Op: OpRem}) }

func (b *MethodBuilder) Incr(index, amount int) *MethodBuilder {
	return b.emit(Incr{Index: index, Amount: amount})
}

func (b *MethodBuilder) IfZero(c Cond, target int) *MethodBuilder {
	return b.emit(IfZero{Cond: c, Target: target})
}

func (b *MethodBuilder) IfCmp(c Cond, target int) *MethodBuilder {
	return b.emit(IfCmp{Cond: c, Target: target})
}

func (b *MethodBuilder) Goto(target int) *MethodBuilder {
	return b.emit(Goto{Target: target})
}

func (b *MethodBuilder) GetStatic(class, field string) *MethodBuilder {
	return b.emit(GetStatic{Field: Field{Class: class, Name: field}})
}

func (b *MethodBuilder) New(class string) *MethodBuilder {
	return b.emit(New{Class: class})
}

func (b *MethodBuilder) NewArray(t Type) *MethodBuilder {
	return b.emit(NewArray{Type: t, Dim: 1})
}

func (b *MethodBuilder) ArrayStore(t Type) *MethodBuilder {
	return b.emit(ArrayStore{Type: t})
}

func (b *MethodBuilder) ArrayLoad(t Type) *MethodBuilder {
	return b.emit(ArrayLoad{Type: t})
}

func (b *MethodBuilder) ArrayLength() *MethodBuilder {
	return b.emit(ArrayLength{})
}

func (b *MethodBuilder) Dup() *MethodBuilder {
	return b.emit(Dup{Words: 1})
}

func (b *MethodBuilder) Invoke(class, name string, params ...Type) *MethodBuilder {
	return b.emit(InvokeStatic{Method: MethodRef{Class: class, Name: name, Params: params}})
}

func (b *MethodBuilder) Return(t Type) *MethodBuilder {
	return b.emit(Return{Type: t})
}

func (b *MethodBuilder) ReturnVoid() *MethodBuilder {
	return b.emit(Return{})
}

func (b *MethodBuilder) Throw() *MethodBuilder {
	return b.emit(Throw{})
}

// Build validates branch targets and returns the finished method.
func (b *MethodBuilder) Build() (*Method, error) {
	m := &Method{Ref: b.ref, Code: b.code}
	if err := validateTargets(m); err != nil {
		return nil, fmt.Errorf("method %s: %w", m.Ref, err)
	}
	return m, nil
}

// MustBuild is Build for statically known-correct programs.
func (b *MethodBuilder) MustBuild() *Method {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
