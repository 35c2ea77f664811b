package events

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainPreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Post("log", "one")
	q.Post("event", "two")

	drained := q.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "one", drained[0].Message)
	assert.Equal(t, "event", drained[1].Kind)
	assert.Empty(t, q.Drain())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ConcurrentPosts(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Post("log", fmt.Sprintf("%d-%d", worker, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 400, q.Len())
	assert.Len(t, q.Drain(), 400)
}
