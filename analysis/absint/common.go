// Package absint implements the fixpoint engine of the abstract
// interpreter: program abstract states built from activation frames and
// a shared heap, the location map recording the best known state per
// program location, and the worklist driver iterating a stepper until
// the map stabilizes.
package absint

import (
	"errors"
	"fmt"

	L "github.com/cs-au-dk/ibex/analysis/lattice"
	"github.com/cs-au-dk/ibex/utils"

	"github.com/fatih/color"
)

var opts = utils.Opts()

var Elements = L.Create().Element

var (
	// ErrInvariantViolation is wrapped by the panics raised when an
	// engine invariant breaks: joining frames at different locations,
	// mismatched operand stacks or call stacks, or a corrupted location
	// map. Such panics are never recovered by the engine.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrOutOfBudget is returned when the driver exhausts the configured
	// step bound before the pending set drains.
	ErrOutOfBudget = errors.New("out of step budget")
)

// invariantViolation raises an engine invariant violation.
func invariantViolation(format string, args ...interface{}) {
	panic(fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...)))
}

// colorize is used for pretty-printing.
var colorize = struct {
	Attr func(...interface{}) string
}{
	Attr: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
	},
}

// joinValues merges the values bound to a key present in both operands
// of a tree merge.
func joinValues(a, b L.Value) (L.Value, bool) {
	if a.Eq(b) {
		return a, true
	}
	return a.Join(b), false
}

// widenInto is used with InsertOrMerge, whose merge callback receives
// the incoming value first and the existing one second. Values of
// unbounded-height domains widen; everything else joins.
func widenInto(incoming, existing L.Value) (L.Value, bool) {
	if existing.Eq(incoming) {
		return existing, true
	}
	return L.WidenOrJoin(existing, incoming), false
}

// eqValues compares the values bound to the same key in two trees.
func eqValues(a, b L.Value) bool {
	return a.Eq(b)
}
