package absint

import (
	"fmt"

	"github.com/cs-au-dk/ibex/analysis/defs"
)

// Stepper is the engine's view of a semantics. Step consumes a state
// and produces every immediate successor state; a state with no
// successors (such as a return from the outermost frame) yields an
// empty slice. Implementations must be deterministic and must not
// retain or mutate the argument.
type Stepper interface {
	Step(State) ([]State, error)
}

// StepperFunc adapts a function to the Stepper interface.
type StepperFunc func(State) ([]State, error)

func (f StepperFunc) Step(s State) ([]State, error) {
	return f(s)
}

// StepFailure is the error steppers report for states they cannot
// process: instructions outside the supported subset or operand shapes
// the instruction cannot consume. The driver records the failure at the
// state's location and continues with other locations.
type StepFailure struct {
	Loc   defs.Loc
	Cause error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step failed at %s: %v", e.Loc, e.Cause)
}

func (e *StepFailure) Unwrap() error {
	return e.Cause
}
