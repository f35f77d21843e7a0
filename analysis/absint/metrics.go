package absint

import (
	"time"

	"github.com/cs-au-dk/ibex/analysis/defs"
)

// Metrics collects counters describing a driver run. A nil *Metrics is
// valid everywhere and records nothing.
type Metrics struct {
	steps       int
	joins       int
	peakPending int
	trace       []defs.Loc
	time        time.Duration
	timer       time.Time
}

// InitMetrics returns a fresh metrics collector.
func InitMetrics() *Metrics {
	return &Metrics{}
}

// Enabled checks whether the metrics collector is available.
func (m *Metrics) Enabled() bool {
	return m != nil
}

// AddStep records that the driver stepped the given location.
func (m *Metrics) AddStep(l defs.Loc) {
	if m == nil {
		return
	}

	m.steps++
	m.trace = append(m.trace, l)
}

// AddJoin records a state join in the location map.
func (m *Metrics) AddJoin() {
	if m == nil {
		return
	}

	m.joins++
}

// ObservePending records the pending-queue size after a step.
func (m *Metrics) ObservePending(n int) {
	if m == nil {
		return
	}

	if m.peakPending < n {
		m.peakPending = n
	}
}

// TimerStart starts a timer before the driver runs.
func (m *Metrics) TimerStart() {
	if m == nil {
		return
	}

	m.timer = time.Now()
}

// timerStop stops the timer and registers the duration of the run.
func (m *Metrics) timerStop() {
	if m == nil {
		return
	}

	m.time = time.Since(m.timer)
}

// Steps returns the number of driver iterations performed.
func (m *Metrics) Steps() int {
	if m == nil {
		return 0
	}

	return m.steps
}

// Joins returns the number of state joins performed by the location
// map.
func (m *Metrics) Joins() int {
	if m == nil {
		return 0
	}

	return m.joins
}

// PeakPending returns the largest pending-queue size observed.
func (m *Metrics) PeakPending() int {
	if m == nil {
		return 0
	}

	return m.peakPending
}

// Trace returns the locations in the order the driver stepped them.
func (m *Metrics) Trace() []defs.Loc {
	if m == nil {
		return nil
	}

	return m.trace
}

// Performance logs how fast the driver ran.
func (m *Metrics) Performance() string {
	if m == nil {
		return "- no metrics gathered -"
	}

	return m.time.String()
}
