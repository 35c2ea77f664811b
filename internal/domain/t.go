package domain

import (
	"context"
	"fmt"
)

// CleanupFunc reverses a side effect made during a test
type CleanupFunc func(ctx context.Context) error

// CleanupPusher accepts cleanup functions for the running test
type CleanupPusher interface {
	Push(fn CleanupFunc)
}

// EventSink receives log and event messages. Implementations must be safe
// to call from any goroutine.
type EventSink interface {
	Post(kind, message string)
}

// Event kinds posted through T
const (
	EventKindLog   = "log"
	EventKindEvent = "event"
)

// T is handed to every test body. It carries the test's context, the cleanup
// stack owned by the runner and values published by the environment.
type T struct {
	ctx     context.Context
	suite   string
	name    string
	cleanup CleanupPusher
	sink    EventSink
	values  map[any]any
}

// NewT creates the per-test handle
func NewT(ctx context.Context, tc TestCase, cleanup CleanupPusher, sink EventSink) *T {
	return &T{
		ctx:     ctx,
		suite:   tc.Suite,
		name:    tc.Name,
		cleanup: cleanup,
		sink:    sink,
		values:  make(map[any]any),
	}
}

// Context returns the context of the running test
func (t *T) Context() context.Context { return t.ctx }

// Suite returns the suite name
func (t *T) Suite() string { return t.suite }

// Name returns the test name
func (t *T) Name() string { return t.name }

// FullName returns "suite.test"
func (t *T) FullName() string { return QualifiedName(t.suite, t.name) }

// Cleanup registers fn to run after the test, in reverse registration order
func (t *T) Cleanup(fn CleanupFunc) {
	t.cleanup.Push(fn)
}

// Logf posts a log line. Safe to call from background goroutines.
func (t *T) Logf(format string, args ...any) {
	if t.sink != nil {
		t.sink.Post(EventKindLog, fmt.Sprintf(format, args...))
	}
}

// Eventf posts an event line. Safe to call from background goroutines.
func (t *T) Eventf(format string, args ...any) {
	if t.sink != nil {
		t.sink.Post(EventKindEvent, fmt.Sprintf(format, args...))
	}
}

// Sink returns the event sink so helpers running off the test goroutine can post to it
func (t *T) Sink() EventSink { return t.sink }

// SetValue publishes a value for the test body, typically from an environment
func (t *T) SetValue(key, value any) {
	t.values[key] = value
}

// Value returns a value published with SetValue, or nil
func (t *T) Value(key any) any {
	return t.values[key]
}
