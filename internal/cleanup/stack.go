package cleanup

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"gtr/internal/domain"
)

// Stack is a last-in-first-out registry of cleanup functions. One stack is
// owned by one runner and injected into test bodies through domain.T.
type Stack struct {
	mu  sync.Mutex
	fns []domain.CleanupFunc
}

// New creates an empty Stack
func New() *Stack {
	return &Stack{}
}

// Push appends fn to the top of the stack
func (s *Stack) Push(fn domain.CleanupFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.fns = append(s.fns, fn)
	s.mu.Unlock()
}

// Len returns the number of pending functions
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Reset discards all pending functions and returns how many were dropped
func (s *Stack) Reset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.fns)
	s.fns = nil
	return n
}

func (s *Stack) pop() (domain.CleanupFunc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fns) == 0 {
		return nil, false
	}
	last := len(s.fns) - 1
	fn := s.fns[last]
	s.fns[last] = nil
	s.fns = s.fns[:last]
	return fn, true
}

// DrainAll pops and invokes functions until the stack is empty. Errors and
// panics are collected and returned in invocation order; they never stop
// the drain. Functions pushed while draining are drained as well.
func (s *Stack) DrainAll(ctx context.Context) []error {
	var errs []error
	for {
		fn, ok := s.pop()
		if !ok {
			return errs
		}
		if err := domain.Protect(func() error { return fn(ctx) }); err != nil {
			errs = append(errs, err)
		}
	}
}

// Drain is DrainAll with the failures combined into a single error
func (s *Stack) Drain(ctx context.Context) error {
	return Combine(s.DrainAll(ctx))
}

// Combine folds drain failures into one error, nil when there are none
func Combine(errs []error) error {
	var result *multierror.Error
	for i, err := range errs {
		result = multierror.Append(result, fmt.Errorf("cleanup %d: %w", i+1, err))
	}
	return result.ErrorOrNil()
}
