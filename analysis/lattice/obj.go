package lattice

import "fmt"

// Obj summarizes the arrays allocated at a single site. The element
// field joins every value stored into any of them, and the length
// field abstracts their lengths.
type Obj struct {
	value
	elem   Value
	length Value
}

// Obj creates an array summary with the given element and length
// abstractions.
func (elementFactory) Obj(elem, length Value) Obj {
	return Obj{elem: elem, length: length}
}

// Obj safely converts to an array summary.
func (e Obj) Obj() Obj {
	return e
}

// Elem is the join of every value stored into the summarized arrays.
func (e Obj) Elem() Value {
	return e.elem
}

// Length abstracts the lengths of the summarized arrays.
func (e Obj) Length() Value {
	return e.length
}

// UpdateElem joins v into the element summary. Stores are weak since
// one summary covers every array allocated at the site.
func (e Obj) UpdateElem(v Value) Obj {
	e.elem = e.elem.Join(v)
	return e
}

func (e Obj) String() string {
	return fmt.Sprintf("%s(%s: %s, %s: %s)",
		colorize.Attr("arr"),
		colorize.Attr("len"), e.length,
		colorize.Attr("elem"), e.elem)
}

// Eq computes e1 = e2. Performs domain dynamic type checking.
func (e1 Obj) Eq(e2 Value) bool {
	o := e2.Obj()
	return e1.elem.Eq(o.elem) && e1.length.Eq(o.length)
}

// Leq computes e1 ⊑ e2. Performs domain dynamic type checking.
func (e1 Obj) Leq(e2 Value) bool {
	o := e2.Obj()
	return e1.elem.Leq(o.elem) && e1.length.Leq(o.length)
}

// Geq computes e1 ⊒ e2. Performs domain dynamic type checking.
func (e1 Obj) Geq(e2 Value) bool {
	return e2.Obj().Leq(e1)
}

// Join computes e1 ⊔ e2. Performs domain dynamic type checking.
func (e1 Obj) Join(e2 Value) Value {
	return e1.MonoJoin(e2.Obj())
}

// MonoJoin is a monomorphic variant of e1 ⊔ e2 for array summaries.
func (e1 Obj) MonoJoin(e2 Obj) Obj {
	return Obj{
		elem:   e1.elem.Join(e2.elem),
		length: e1.length.Join(e2.length),
	}
}

// Meet computes e1 ⊓ e2. Performs domain dynamic type checking.
func (e1 Obj) Meet(e2 Value) Value {
	o := e2.Obj()
	return Obj{
		elem:   e1.elem.Meet(o.elem),
		length: e1.length.Meet(o.length),
	}
}

// Widen widens the element and length fields when their domains require
// it, and joins otherwise.
func (e1 Obj) Widen(e2 Value) Value {
	o := e2.Obj()
	return Obj{
		elem:   WidenOrJoin(e1.elem, o.elem),
		length: WidenOrJoin(e1.length, o.length),
	}
}
