// Package interp steps JVM bytecode. The abstract interpreter drives
// the fixpoint engine of the absint package over one of the integer
// abstractions of the lattice package and records the failure outcomes
// it cannot rule out; the concrete interpreter executes the same
// bytecode with int64 integers and real arrays, and exists to
// cross-validate the abstract semantics.
package interp

import (
	L "github.com/cs-au-dk/ibex/analysis/lattice"
)

// Elements is a shorthand for the lattice element factory.
var Elements = L.Create().Element
