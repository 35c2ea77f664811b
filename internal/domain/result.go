package domain

import "time"

// TestResult represents the outcome of executing one test case
type TestResult struct {
	Suite    string
	Name     string
	Passed   bool
	Start    time.Time     // Wall-clock start, used for report timestamps
	Duration time.Duration // Measured with the monotonic clock

	// Failure is the setup or execute phase failure, nil if those phases passed
	Failure *Failure
	// CleanupFailures holds every error raised while draining the cleanup stack
	CleanupFailures []Failure
}

// FullName returns the qualified "suite.test" identifier
func (r TestResult) FullName() string {
	return QualifiedName(r.Suite, r.Name)
}

// Failures returns the primary failure followed by the cleanup failures
func (r TestResult) Failures() []Failure {
	var all []Failure
	if r.Failure != nil {
		all = append(all, *r.Failure)
	}
	return append(all, r.CleanupFailures...)
}

// FatalFailure returns the first fatal failure from any phase, or nil
func (r TestResult) FatalFailure() *Failure {
	if r.Failure != nil && r.Failure.Kind == FailureFatal {
		return r.Failure
	}
	for i := range r.CleanupFailures {
		if r.CleanupFailures[i].Kind == FailureFatal {
			return &r.CleanupFailures[i]
		}
	}
	return nil
}

// FailureMessage returns the message reported for a failed test. The
// execute phase failure takes precedence over cleanup failures.
func (r TestResult) FailureMessage() string {
	if r.Failure != nil {
		return r.Failure.Message
	}
	if len(r.CleanupFailures) > 0 {
		return r.CleanupFailures[0].Message
	}
	return ""
}

// Details flattens the result's failures into viewer records, one per failure fact
func (r TestResult) Details() []FailureDetail {
	var details []FailureDetail
	for _, f := range r.Failures() {
		details = append(details, FailureDetail{
			TestName:   r.FullName(),
			Suite:      r.Suite,
			Kind:       f.Kind,
			Phase:      f.Phase,
			Message:    f.Message,
			Condition:  f.Condition,
			File:       f.File,
			Line:       f.Line,
			StackTrace: f.Stack,
		})
	}
	return details
}

// FailureDetail is a failed test as persisted for the failures viewer
type FailureDetail struct {
	TestName   string      `json:"test_name"`
	Suite      string      `json:"suite"`
	Kind       FailureKind `json:"kind"`
	Phase      Phase       `json:"phase"`
	Message    string      `json:"message"`
	Condition  string      `json:"condition,omitempty"`
	File       string      `json:"file,omitempty"`
	Line       int         `json:"line,omitempty"`
	StackTrace []string    `json:"stack_trace,omitempty"`
	Resolved   bool        `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	Suites          int     `json:"suites"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []FailureDetail `json:"details"`
}
