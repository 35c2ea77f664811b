package samples

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gtr/internal/assert"
	"gtr/internal/domain"
)

// EventsSuite posts events from background goroutines, the way SDK
// callbacks arrive off the test goroutine.
type EventsSuite struct{}

func (EventsSuite) TestBackgroundCallbacks(t *domain.T) error {
	const workers = 3
	var wg sync.WaitGroup
	var mu sync.Mutex
	delivered := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			t.Eventf("callback from worker %d", id)
			mu.Lock()
			delivered++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	return assert.AreEqual(workers, delivered)
}

func (EventsSuite) TestTickerStoppedByCleanup(t *domain.T) error {
	ticks := make(chan int, 16)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		n := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n++
				select {
				case ticks <- n:
				default:
				}
			}
		}
	}()

	t.Cleanup(func(ctx context.Context) error {
		close(done)
		select {
		case <-stopped:
			t.Logf("ticker stopped")
			return nil
		case <-ctx.Done():
			return fmt.Errorf("ticker did not stop: %w", ctx.Err())
		}
	})

	select {
	case n := <-ticks:
		t.Eventf("tick %d", n)
		return assert.IsGreaterOrEqual(n, 1)
	case <-t.Context().Done():
		return t.Context().Err()
	case <-time.After(time.Second):
		return assert.Fail("no tick within a second")
	}
}
