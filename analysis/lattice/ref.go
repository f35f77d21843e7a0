package lattice

import (
	"fmt"
	"sort"

	loc "github.com/cs-au-dk/ibex/analysis/location"
	i "github.com/cs-au-dk/ibex/utils/indenter"
	"github.com/cs-au-dk/ibex/utils/tree"
)

// Ref is a points-to set: the set of abstract heap locations a
// reference may denote, possibly including the nil location.
type Ref struct {
	value
	mem tree.Tree[loc.Location, struct{}]
}

// Ref constructs a points-to set with the given locations.
func (elementFactory) Ref(locs ...loc.Location) Ref {
	r := Ref{mem: tree.NewTree[loc.Location, struct{}](loc.LocationHasher{})}
	for _, l := range locs {
		r.mem = r.mem.Insert(l, struct{}{})
	}
	return r
}

// RefNil constructs the points-to set holding only the nil location.
func (elementFactory) RefNil() Ref {
	return elFact.Ref(loc.NilLocation{})
}

// Size is the cardinality of the points-to set.
func (e Ref) Size() int {
	return e.mem.Size()
}

// Empty checks whether the points-to set is ∅.
func (e Ref) Empty() bool {
	return e.Size() == 0
}

// IsBot checks whether the points-to set is ∅.
func (e Ref) IsBot() bool {
	return e.Empty()
}

// Entries aggregates all locations in the points-to set into a slice.
func (e Ref) Entries() (ret []loc.Location) {
	e.mem.ForEach(func(k loc.Location, _ struct{}) {
		ret = append(ret, k)
	})
	return ret
}

// ForEach performs procedure f on all members of the points-to set.
func (e Ref) ForEach(f func(loc.Location)) {
	e.mem.ForEach(func(k loc.Location, _ struct{}) { f(k) })
}

// Contains checks whether a location is included in the points-to set.
func (e Ref) Contains(key loc.Location) bool {
	_, found := e.mem.Lookup(key)
	return found
}

// MayNil checks whether the points-to set contains the nil location.
func (e Ref) MayNil() bool {
	return e.Contains(loc.NilLocation{})
}

// MustNil checks whether the points-to set contains only the nil
// location.
func (e Ref) MustNil() bool {
	return e.Size() == 1 && e.MayNil()
}

// NonNil returns the points-to set with the nil location removed.
func (e Ref) NonNil() Ref {
	return e.Remove(loc.NilLocation{})
}

// RefineNil splits the points-to set by a nullness test. The first
// result keeps the states where the reference is null, the second
// those where it is not.
func (e Ref) RefineNil() (isNil, nonNil Ref) {
	isNil = elFact.Ref()
	if e.MayNil() {
		isNil = isNil.Add(loc.NilLocation{})
	}
	return isNil, e.NonNil()
}

// Add recomputes the points-to set to include the given location.
func (e Ref) Add(l loc.Location) Ref {
	e.mem = e.mem.Insert(l, struct{}{})
	return e
}

// Remove recomputes the points-to set, excluding the given location.
func (e Ref) Remove(l loc.Location) Ref {
	e.mem = e.mem.Remove(l)
	return e
}

func (e Ref) String() string {
	buf := []fmt.Stringer{}

	e.ForEach(func(k loc.Location) {
		buf = append(buf, k)
	})

	if len(buf) == 0 {
		return colorize.Element("∅")
	}

	sort.Slice(buf, func(i, j int) bool {
		return buf[i].String() < buf[j].String()
	})
	return i.Indenter().Start("{").
		NestSep(",", buf...).
		End("}")
}

// Eq computes e1 = e2. Performs domain dynamic type checking.
func (e1 Ref) Eq(e2 Value) bool {
	return e1.mem.Equal(e2.Ref().mem, func(_, _ struct{}) bool { return true })
}

// Leq computes e1 ⊑ e2. Performs domain dynamic type checking.
func (e1 Ref) Leq(e2 Value) bool {
	o := e2.Ref()
	leq := true
	e1.ForEach(func(l loc.Location) {
		leq = leq && o.Contains(l)
	})
	return leq
}

// Geq computes e1 ⊒ e2. Performs domain dynamic type checking.
func (e1 Ref) Geq(e2 Value) bool {
	return e2.Ref().Leq(e1)
}

// Join computes e1 ⊔ e2. Performs domain dynamic type checking.
func (e1 Ref) Join(e2 Value) Value {
	return e1.MonoJoin(e2.Ref())
}

// MonoJoin is a monomorphic variant of e1 ⊔ e2 for points-to sets.
func (e1 Ref) MonoJoin(e2 Ref) Ref {
	e1.mem = e1.mem.Merge(e2.mem, func(_, b struct{}) (struct{}, bool) {
		return b, true
	})
	return e1
}

// Meet computes e1 ⊓ e2. Performs domain dynamic type checking.
func (e1 Ref) Meet(e2 Value) Value {
	return e1.MonoMeet(e2.Ref())
}

// MonoMeet is a monomorphic variant of e1 ⊓ e2 for points-to sets.
func (e1 Ref) MonoMeet(e2 Ref) Ref {
	res := elFact.Ref()
	e1.ForEach(func(l loc.Location) {
		if e2.Contains(l) {
			res = res.Add(l)
		}
	})
	return res
}

// Ref safely converts to a points-to set.
func (e Ref) Ref() Ref {
	return e
}
