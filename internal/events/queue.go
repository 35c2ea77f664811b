package events

import (
	"sync"
	"time"
)

// Event is a log or event message posted while a test runs
type Event struct {
	Kind    string
	Message string
	Time    time.Time
}

// Queue collects events posted from any goroutine. Only the runner drains
// it, so reporters observe events on the runner's goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Post enqueues a message. Safe for concurrent use.
func (q *Queue) Post(kind, message string) {
	q.mu.Lock()
	q.events = append(q.events, Event{Kind: kind, Message: message, Time: q.now()})
	q.mu.Unlock()
}

// Drain returns all pending events in posting order and empties the queue
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.events
	q.events = nil
	return drained
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
