package queue

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MemoryQueue is an in-process queue drained by a fixed worker pool.
type MemoryQueue struct {
	ch      chan Message
	workers int

	mu     sync.RWMutex
	closed bool
}

func NewMemoryQueue(buffer, workers int) *MemoryQueue {
	if workers < 1 {
		workers = 1
	}
	return &MemoryQueue{ch: make(chan Message, buffer), workers: workers}
}

func (q *MemoryQueue) Publish(ctx context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}

	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, h Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-q.ch:
					if !ok {
						return nil
					}
					if err := h(ctx, msg); err != nil {
						slog.Error("job failed", "job_id", msg.ID, "type", msg.Type, "error", err)
					}
				}
			}
		})
	}
	return g.Wait()
}

// Close stops accepting messages. Consumers whose context is still live
// deliver what is buffered, then return. A cancelled consumer drops it.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}
