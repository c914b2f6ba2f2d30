package server

import (
	"context"
	"sync"

	"github.com/pattrick12/poker/internal/game"
)

// actionQueue is the table engine's unbounded FIFO: Enqueue never blocks
// the caller (a connection's readPump), and Dequeue blocks only the single
// consumer, the engine's own loop goroutine.
type actionQueue struct {
	mu     sync.Mutex
	items  []game.ActionRequest
	notify chan struct{}
}

func newActionQueue() *actionQueue {
	return &actionQueue{notify: make(chan struct{}, 1)}
}

// Enqueue appends an action and wakes the consumer if it's waiting.
func (q *actionQueue) Enqueue(a game.ActionRequest) {
	q.mu.Lock()
	q.items = append(q.items, a)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Dequeue blocks until an item is available or ctx is done.
func (q *actionQueue) Dequeue(ctx context.Context) (game.ActionRequest, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, true
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return game.ActionRequest{}, false
		}
	}
}
