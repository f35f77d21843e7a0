package absint

import (
	"errors"
	"sort"

	"github.com/cs-au-dk/ibex/analysis/config"
	"github.com/cs-au-dk/ibex/analysis/defs"
	"github.com/cs-au-dk/ibex/utils/pq"
)

// Result is the location map computed by the driver: the best known
// abstract state per visited program location, the pending queue of
// locations whose best state changed since they were last stepped, and
// the step failures encountered along the way.
//
// The map satisfies best[l].Loc() == l for every entry, and every entry
// is an upper bound of everything ever merged at its location.
type Result struct {
	best     map[defs.Loc]State
	pending  pq.PriorityQueue[defs.Loc]
	failures map[defs.Loc]error
	edges    map[defs.Loc]map[defs.Loc]struct{}

	// Join counts per location, driving the widening delay.
	joins         map[defs.Loc]int
	wideningDelay int

	// FIFO bookkeeping; unused under priority order.
	seq     map[defs.Loc]int
	nextSeq int

	status  Status
	metrics *Metrics
}

// MergeIn merges a state into the map at the state's location,
// reporting whether the best approximation there changed. Changed
// locations are queued for (re-)stepping.
func (r *Result) MergeIn(state State) bool {
	l := state.Loc()

	old, found := r.best[l]
	if !found {
		r.best[l] = state
		r.push(l)
		return true
	}

	joined := old.MonoJoin(state)
	r.metrics.AddJoin()
	if r.wideningDelay > 0 {
		if r.joins[l]++; r.joins[l] > r.wideningDelay {
			joined = old.MonoWiden(joined)
		}
	}

	if joined.Eq(old) {
		return false
	}

	r.best[l] = joined
	r.push(l)
	return true
}

func (r *Result) push(l defs.Loc) {
	if r.seq != nil && !r.pending.Contains(l) {
		r.seq[l] = r.nextSeq
		r.nextSeq++
	}
	r.pending.Add(l)
}

// addFailure records a step failure, keeping earlier failures at the
// same location.
func (r *Result) addFailure(l defs.Loc, err error) {
	if prev, found := r.failures[l]; found {
		err = errors.Join(prev, err)
	}
	r.failures[l] = err
}

// addEdge records an observed transition for visualization.
func (r *Result) addEdge(from, to defs.Loc) {
	if r.edges[from] == nil {
		r.edges[from] = make(map[defs.Loc]struct{})
	}
	r.edges[from][to] = struct{}{}
}

// At returns the best known state at the given location.
func (r *Result) At(l defs.Loc) (State, bool) {
	state, found := r.best[l]
	return state, found
}

// Locations returns every visited location, ordered by method and
// offset for deterministic consumption.
func (r *Result) Locations() []defs.Loc {
	locs := make([]defs.Loc, 0, len(r.best))
	for l := range r.best {
		locs = append(locs, l)
	}
	sortLocs(locs)
	return locs
}

// Failures returns the step failures aggregated per location. Locations
// with a failure are analysis-incomplete; their recorded states remain
// sound for the steps that did succeed.
func (r *Result) Failures() map[defs.Loc]error {
	return r.failures
}

// Status reports the driver phase the result was produced in.
func (r *Result) Status() Status {
	return r.status
}

// Pending returns the number of locations awaiting (re-)stepping. It is
// zero exactly when the result is a fixpoint.
func (r *Result) Pending() int {
	return r.pending.Size()
}

func sortLocs(locs []defs.Loc) {
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.Method != b.Method {
			return a.Method.Ref.String() < b.Method.Ref.String()
		}
		return a.Offset < b.Offset
	})
}

// Result creates an empty location map whose pending queue follows the
// configured order.
func (factory) Result(C AnalysisCtxt) *Result {
	r := &Result{
		best:          make(map[defs.Loc]State),
		failures:      make(map[defs.Loc]error),
		edges:         make(map[defs.Loc]map[defs.Loc]struct{}),
		joins:         make(map[defs.Loc]int),
		wideningDelay: 0,
		status:        StatusRunning,
		metrics:       C.Metrics,
	}

	conf := C.Config
	if conf == nil {
		conf = config.Default()
	}
	r.wideningDelay = conf.WideningDelay

	if conf.Order == config.OrderFIFO {
		r.seq = make(map[defs.Loc]int)
		r.pending = pq.Empty(func(a, b defs.Loc) bool {
			return r.seq[a] < r.seq[b]
		})
	} else {
		r.pending = defs.EmptyWorklist(C.Priorities)
	}

	return r
}
