package domain

import "strconv"

// FailureKind classifies why a test failed
type FailureKind string

const (
	// FailureAssertion is an expected/actual mismatch raised by the assert package
	FailureAssertion FailureKind = "assertion"
	// FailureFatal is any other error or panic from setup, body or cleanup
	FailureFatal FailureKind = "fatal"
	// FailureCleanup is an assertion failure returned by a cleanup function.
	// Other errors and panics raised while draining are FailureFatal in PhaseCleanup.
	FailureCleanup FailureKind = "cleanup"
)

// Phase is the part of a test's lifecycle a failure was raised in
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseExecute Phase = "execute"
	PhaseCleanup Phase = "cleanup"
)

// Failure represents a single failure fact recorded for a test
type Failure struct {
	Kind      FailureKind `json:"kind"`
	Phase     Phase       `json:"phase"`
	Message   string      `json:"message"`
	Condition string      `json:"condition,omitempty"` // Stringified check, e.g. "4 == 5"
	File      string      `json:"file,omitempty"`
	Line      int         `json:"line,omitempty"`
	Func      string      `json:"func,omitempty"`
	Stack     []string    `json:"stack,omitempty"`
}

// Location returns "file:line" when the call site is known
func (f Failure) Location() string {
	if f.File == "" {
		return ""
	}
	return f.File + ":" + strconv.Itoa(f.Line)
}
