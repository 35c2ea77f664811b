// Package aggregate accumulates test results and derives run and suite totals.
package aggregate

import (
	"time"

	"github.com/google/uuid"

	"gtr/internal/domain"
)

// SuiteTotals is the rollup of one suite's results
type SuiteTotals struct {
	Name     string
	Tests    int
	Failures int
	Elapsed  time.Duration // Sum of per-test durations
	Start    time.Time     // Start of the suite's first recorded test
	Results  []domain.TestResult
}

// Passed returns the number of passing tests in the suite
func (s SuiteTotals) Passed() int {
	return s.Tests - s.Failures
}

// Run is the rollup of a whole run
type Run struct {
	ID       string
	Start    time.Time
	Tests    int
	Failures int
	Elapsed  time.Duration // Sum of per-test durations, not the wall-clock span
	Suites   []SuiteTotals
}

// Passed returns the number of passing tests
func (r Run) Passed() int {
	return r.Tests - r.Failures
}

// FailedNames returns the qualified names of failed tests in run order
func (r Run) FailedNames() []string {
	var failed []string
	for _, s := range r.Suites {
		for _, res := range s.Results {
			if !res.Passed {
				failed = append(failed, res.FullName())
			}
		}
	}
	return failed
}

// Results returns every result in run order
func (r Run) Results() []domain.TestResult {
	var all []domain.TestResult
	for _, s := range r.Suites {
		all = append(all, s.Results...)
	}
	return all
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithRunID overrides the generated run ID
func WithRunID(id string) Option {
	return func(a *Aggregator) { a.runID = id }
}

// WithClock overrides the clock used when a run has no results
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// Aggregator appends test results and computes totals on demand.
// Results are only ever appended; totals are always recomputed.
type Aggregator struct {
	runID   string
	now     func() time.Time
	created time.Time
	results []domain.TestResult
}

// New creates an Aggregator with a fresh run ID
func New(opts ...Option) *Aggregator {
	a := &Aggregator{runID: uuid.New().String(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.created = a.now()
	return a
}

// RunID returns the identifier of the run being aggregated
func (a *Aggregator) RunID() string {
	return a.runID
}

// Record appends a result under its suite
func (a *Aggregator) Record(result domain.TestResult) {
	a.results = append(a.results, result)
}

// RecordOutcome appends a result built from its basic facts
func (a *Aggregator) RecordOutcome(suite, test string, start time.Time, duration time.Duration, passed bool) {
	a.Record(domain.TestResult{
		Suite:    suite,
		Name:     test,
		Start:    start,
		Duration: duration,
		Passed:   passed,
	})
}

// Len returns the number of recorded results
func (a *Aggregator) Len() int {
	return len(a.results)
}

// Totals derives the run rollup from the recorded results. Suites appear in
// the order their first result was recorded.
func (a *Aggregator) Totals() Run {
	run := Run{ID: a.runID, Start: a.created}
	index := make(map[string]int)

	for i, res := range a.results {
		if i == 0 {
			run.Start = res.Start
		}
		pos, ok := index[res.Suite]
		if !ok {
			pos = len(run.Suites)
			index[res.Suite] = pos
			run.Suites = append(run.Suites, SuiteTotals{Name: res.Suite, Start: res.Start})
		}

		suite := &run.Suites[pos]
		suite.Tests++
		suite.Elapsed += res.Duration
		suite.Results = append(suite.Results, res)
		if !res.Passed {
			suite.Failures++
		}

		run.Tests++
		run.Elapsed += res.Duration
		if !res.Passed {
			run.Failures++
		}
	}
	return run
}
