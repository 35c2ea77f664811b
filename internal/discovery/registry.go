package discovery

import (
	"errors"
	"fmt"
	"sort"

	"gtr/internal/domain"
)

var (
	// ErrDuplicateTest is returned when a suite/test pair is registered twice
	ErrDuplicateTest = errors.New("duplicate test")
	// ErrInvalidTest is returned for empty names or a nil body
	ErrInvalidTest = errors.New("invalid test")
)

// Option customises a test at registration time
type Option func(*domain.TestCase)

// WithOrder sets the ordering hint of a test. Tests are stable-sorted by
// this value within their suite, so equal hints keep registration order.
func WithOrder(order int) Option {
	return func(tc *domain.TestCase) {
		tc.Order = order
	}
}

type suiteEntry struct {
	name  string
	tests []domain.TestCase
	names map[string]bool
}

// Registry holds registered tests grouped into suites, in discovery order
type Registry struct {
	suites []*suiteEntry
	index  map[string]*suiteEntry
	seq    int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*suiteEntry)}
}

// Default is the registry used by the package-level Test function
var Default = NewRegistry()

// Test registers a test with the Default registry and panics on error.
// It is meant to be called from init functions.
func Test(suite, name string, body domain.Body, opts ...Option) {
	Default.MustRegister(suite, name, body, opts...)
}

// Register adds a test. The suite is created on first reference to its name.
func (r *Registry) Register(suite, name string, body domain.Body, opts ...Option) error {
	if err := r.check(suite, name, body); err != nil {
		return err
	}

	entry, ok := r.index[suite]
	if !ok {
		entry = &suiteEntry{name: suite, names: make(map[string]bool)}
		r.index[suite] = entry
		r.suites = append(r.suites, entry)
	}

	tc := domain.TestCase{Suite: suite, Name: name, Body: body, Seq: r.seq}
	for _, opt := range opts {
		opt(&tc)
	}
	r.seq++

	entry.names[name] = true
	entry.tests = append(entry.tests, tc)
	return nil
}

// check reports why a test could not be registered, without changing the registry
func (r *Registry) check(suite, name string, body domain.Body) error {
	if suite == "" || name == "" {
		return fmt.Errorf("%w: suite and test names must not be empty (suite=%q, test=%q)", ErrInvalidTest, suite, name)
	}
	if body == nil {
		return fmt.Errorf("%w: %s has no body", ErrInvalidTest, domain.QualifiedName(suite, name))
	}
	if entry, ok := r.index[suite]; ok && entry.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateTest, domain.QualifiedName(suite, name))
	}
	return nil
}

// MustRegister is Register that panics on error
func (r *Registry) MustRegister(suite, name string, body domain.Body, opts ...Option) {
	if err := r.Register(suite, name, body, opts...); err != nil {
		panic(err)
	}
}

// Suites returns a snapshot of the registered suites in discovery order,
// with each suite's tests sorted by ordering hint.
func (r *Registry) Suites() []domain.Suite {
	suites := make([]domain.Suite, 0, len(r.suites))
	for _, entry := range r.suites {
		tests := make([]domain.TestCase, len(entry.tests))
		copy(tests, entry.tests)
		sort.SliceStable(tests, func(i, j int) bool {
			return tests[i].Order < tests[j].Order
		})
		suites = append(suites, domain.Suite{Name: entry.name, Tests: tests})
	}
	return suites
}

// Len returns the number of registered tests
func (r *Registry) Len() int {
	return r.seq
}
