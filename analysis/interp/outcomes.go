package interp

import (
	"sort"
	"strings"

	"github.com/cs-au-dk/ibex/analysis/absint"
	"github.com/cs-au-dk/ibex/analysis/defs"
	"github.com/cs-au-dk/ibex/utils/slices"
)

// Outcome is one way a run of a program can end.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeDivByZero Outcome = "divide by zero"
	OutcomeAssertion Outcome = "assertion error"
	OutcomeBounds    Outcome = "out of bounds"
	OutcomeNilDeref  Outcome = "null pointer"

	// OutcomeBudget marks a concrete run that was cut off before it
	// reached any of the real outcomes.
	OutcomeBudget Outcome = "*"
)

// outcomeOrder fixes the reporting order of outcome sets.
var outcomeOrder = map[Outcome]int{
	OutcomeOK:        0,
	OutcomeDivByZero: 1,
	OutcomeAssertion: 2,
	OutcomeBounds:    3,
	OutcomeNilDeref:  4,
	OutcomeBudget:    5,
}

// Outcomes aggregates the failure modes the abstract semantics could
// not rule out, keyed by the location that may trigger them.
type Outcomes struct {
	at map[defs.Loc]map[Outcome]struct{}
}

func newOutcomes() *Outcomes {
	return &Outcomes{at: make(map[defs.Loc]map[Outcome]struct{})}
}

func (o *Outcomes) record(l defs.Loc, out Outcome) {
	if o.at[l] == nil {
		o.at[l] = make(map[Outcome]struct{})
	}
	o.at[l][out] = struct{}{}
}

// At returns the outcomes recorded at a location in reporting order.
func (o *Outcomes) At(l defs.Loc) []Outcome {
	return sortOutcomes(o.at[l])
}

func sortOutcomes(set map[Outcome]struct{}) []Outcome {
	if len(set) == 0 {
		return nil
	}
	outs := make([]Outcome, 0, len(set))
	for out := range set {
		outs = append(outs, out)
	}
	sort.Slice(outs, func(i, j int) bool {
		return outcomeOrder[outs[i]] < outcomeOrder[outs[j]]
	})
	return outs
}

// Classification is the set of outcomes an analysis could not rule out.
type Classification []Outcome

// May reports whether the outcome is in the set.
func (c Classification) May(out Outcome) bool {
	return slices.OneOf(out, c...)
}

func (c Classification) String() string {
	strs := make([]string, len(c))
	for i, o := range c {
		strs[i] = string(o)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}

// Classify folds the recorded outcomes into the set of outcomes that
// may occur, dropping locations the result never explored. With a
// converged result the set over-approximates the outcome of every
// concrete run covered by the analyzed entry state.
func Classify(res *absint.Result, outs *Outcomes) Classification {
	set := make(map[Outcome]struct{})
	for l, at := range outs.at {
		if _, found := res.At(l); !found {
			continue
		}
		for out := range at {
			set[out] = struct{}{}
		}
	}
	return Classification(sortOutcomes(set))
}
