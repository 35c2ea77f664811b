package domain

import "fmt"

// Body is the executable part of a test case. It returns nil on success,
// an assertion failure to fail the test, or any other error to fail it fatally.
type Body func(t *T) error

// TestCase represents a single registered test
type TestCase struct {
	Suite string // Name of the suite the test belongs to
	Name  string // Test name, unique within its suite
	Body  Body
	Order int // Ordering hint, ties keep discovery order
	Seq   int // Discovery sequence number assigned by the registry
}

// FullName returns the qualified "suite.test" identifier
func (tc TestCase) FullName() string {
	return QualifiedName(tc.Suite, tc.Name)
}

// QualifiedName joins a suite and test name the way filters and reports expect
func QualifiedName(suite, test string) string {
	return fmt.Sprintf("%s.%s", suite, test)
}

// Suite is a named, ordered collection of test cases
type Suite struct {
	Name  string
	Tests []TestCase
}

// CountTests returns the number of tests across the given suites
func CountTests(suites []Suite) int {
	total := 0
	for _, s := range suites {
		total += len(s.Tests)
	}
	return total
}
