package absint

import (
	"context"
	"fmt"
	"log"

	"github.com/cs-au-dk/ibex/analysis/config"
	"github.com/cs-au-dk/ibex/analysis/upfront"
	"github.com/cs-au-dk/ibex/utils"
)

// Status describes the driver phase an analysis result was produced in.
type Status string

// Encoding of driver statuses.
const (
	StatusRunning     Status = "Running"
	StatusConverged   Status = "Converged"
	StatusCancelled   Status = "Cancelled"
	StatusOutOfBudget Status = "Out of budget"
)

// AnalysisCtxt bundles everything a driver run needs: the options, the
// stepper providing the semantics, the location priorities ordering the
// pending queue, and an optional metrics collector.
type AnalysisCtxt struct {
	Config  *config.Config
	Stepper Stepper
	// Priorities orders the pending queue under config.OrderPriority.
	// Ignored under config.OrderFIFO.
	Priorities upfront.LocPriorities
	Metrics    *Metrics
}

// StaticAnalysis runs the worklist fixpoint from the given entry
// states: repeatedly pop a pending location, step its best known state,
// and merge every successor back into the location map, until the
// pending queue drains.
//
// When it drains, the returned result is the least fixpoint of the
// stepper over the entry states, and the error is nil. Cancelling the
// context or exhausting Config.MaxSteps returns the sound-so-far
// partial result together with a non-nil error.
//
// Termination is the caller's obligation: the value domain must have
// finite height, or widen under Config.WideningDelay, or the run must
// be bounded by Config.MaxSteps.
func StaticAnalysis(ctx context.Context, C AnalysisCtxt, entries ...State) (*Result, error) {
	conf := C.Config
	if conf == nil {
		conf = config.Default()
	}

	result := Create().Result(C)
	for _, entry := range entries {
		result.MergeIn(entry)
	}

	C.Metrics.TimerStart()

	for steps := 0; !result.pending.IsEmpty(); steps++ {
		if err := ctx.Err(); err != nil {
			result.status = StatusCancelled
			C.Metrics.timerStop()
			return result, err
		}

		if conf.MaxSteps > 0 && steps >= conf.MaxSteps {
			result.status = StatusOutOfBudget
			C.Metrics.timerStop()
			return result, fmt.Errorf("%w after %d steps with %d locations pending",
				ErrOutOfBudget, steps, result.pending.Size())
		}

		l := result.pending.GetNext()
		state, found := result.best[l]
		if !found {
			invariantViolation("pending location %s has no best state", l)
		}

		C.Metrics.AddStep(l)
		if opts.LogSteps() {
			log.Printf("step %d at %s (pending %d)", steps, l, result.pending.Size())
		}

		succs, err := C.Stepper.Step(state)
		if err != nil {
			result.addFailure(l, err)
			continue
		}

		for _, succ := range succs {
			result.MergeIn(succ)
			result.addEdge(l, succ.Loc())
		}
		C.Metrics.ObservePending(result.pending.Size())
	}

	result.status = StatusConverged
	C.Metrics.timerStop()

	if m := C.Metrics; m.Enabled() {
		utils.VerbosePrint("Fixpoint of %d locations reached in %d steps (%d joins, peak pending %d) after %s\n",
			len(result.best), m.Steps(), m.Joins(), m.PeakPending(), m.Performance())
	}

	return result, nil
}
