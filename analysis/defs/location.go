package defs

import (
	"fmt"

	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/utils"
)

// Loc represents a program location in the analysis. It is used as a map key
// in analysis results, so it is important that it can be correctly compared
// with ==.
type Loc struct {
	Method *cfg.Method
	Offset int
}

// Instruction yields the instruction at the location, or nil when the
// location lies outside the method's code.
func (l Loc) Instruction() cfg.Instruction {
	if l.Method == nil || l.Offset < 0 || l.Offset >= len(l.Method.Code) {
		return nil
	}
	return l.Method.Code[l.Offset]
}

// Derive a new location in the same method at the given offset.
func (l Loc) Derive(offset int) Loc {
	return Loc{l.Method, offset}
}

// Succ derives the location of the next instruction in sequence.
func (l Loc) Succ() Loc {
	return l.Derive(l.Offset + 1)
}

// Successors derives the locations of the static intra-method successors.
func (l Loc) Successors() []Loc {
	offs := cfg.Successors(l.Method, l.Offset)
	succs := make([]Loc, len(offs))
	for i, off := range offs {
		succs[i] = l.Derive(off)
	}
	return succs
}

// Hash computes a 32-bit hash for the location based on all of its properties.
func (l Loc) Hash() uint32 {
	phasher := utils.PointerHasher[*cfg.Method]{}
	return utils.HashCombine(
		phasher.Hash(l.Method),
		utils.IntHasher[int]{}.Hash(l.Offset),
	)
}

// Equal checks for structural equality between locations.
func (l Loc) Equal(o Loc) bool {
	return l == o
}

func (l Loc) String() string {
	name := "⊥"
	if l.Method != nil {
		name = l.Method.Ref.String()
	}
	return fmt.Sprintf("%s:%s",
		colorize.Method(name),
		colorize.Offset(l.Offset))
}

// locHasher is a hasher for locations.
type locHasher struct{}

func (locHasher) Equal(a, b Loc) bool { return a == b }

func (locHasher) Hash(l Loc) uint32 { return l.Hash() }

// LocHasher retrieves a hasher for locations, for use with hash maps and
// immutable collections.
func LocHasher() utils.Hasher[Loc] {
	return locHasher{}
}
