package lattice

// Value is implemented by all abstract values. The type conversion
// methods panic unless the receiver belongs to the requested domain,
// making every polymorphic lattice operation a dynamic domain check.
type Value interface {
	// Type conversion API
	Signs() Signs
	FlatInt() FlatInt
	Interval() Interval
	Ref() Ref
	Obj() Obj

	// External API for lattice element operations.
	// They dynamically perform domain type checking.
	Leq(Value) bool
	Geq(Value) bool
	Eq(Value) bool
	Join(Value) Value
	Meet(Value) Value

	String() string
}

// Widenable is implemented by values of domains with infinite ascending
// chains. The fixpoint driver widens instead of joining wherever such
// values occur.
type Widenable interface {
	Value
	Widen(Value) Value
}

// WidenOrJoin widens when the domain has infinite ascending chains and
// joins otherwise.
func WidenOrJoin(v1, v2 Value) Value {
	if w, ok := v1.(Widenable); ok {
		return w.Widen(v2)
	}
	return v1.Join(v2)
}

// Refinement is the result of filtering the operands of a comparison
// through one branch polarity.
type Refinement[T Value] struct {
	Left  T
	Right T
}

// value is embedded by all abstract values to provide default
// (panicking) type conversions.
type value struct{}

func (value) Signs() Signs {
	panic(errUnsupportedTypeConversion)
}

func (value) FlatInt() FlatInt {
	panic(errUnsupportedTypeConversion)
}

func (value) Interval() Interval {
	panic(errUnsupportedTypeConversion)
}

func (value) Ref() Ref {
	panic(errUnsupportedTypeConversion)
}

func (value) Obj() Obj {
	panic(errUnsupportedTypeConversion)
}
