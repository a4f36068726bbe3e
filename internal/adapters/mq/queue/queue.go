// Package queue provides the bounded in-memory queue carrying
// settlement awards to the worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/pkg/metrics"
)

const defaultCapacity = 10000

// Award is the payload type flowing through the queue.
type Award = model.Award

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an award. Returns false if the queue is full or
	// closed and the award was not accepted.
	Enqueue(ctx context.Context, a Award) bool

	// Dequeue returns the channel workers consume from. The channel is
	// closed when the queue is closed.
	Dequeue() <-chan Award

	// Len returns the current number of queued awards.
	Len() int

	// Close stops the queue. No new awards are accepted afterwards.
	Close() error
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	awards chan Award
	mu     sync.RWMutex
	closed bool
}

// Option applies a configuration option to the queue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the queue.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// New creates an in-memory award queue.
func New(opts ...Option) *InMemoryQueue {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	metrics.UpdateQueueCapacity(cfg.capacity)
	metrics.UpdateQueueSize(0)
	return &InMemoryQueue{awards: make(chan Award, cfg.capacity)}
}

// Enqueue adds an award without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Award) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}
	select {
	case q.awards <- a:
		metrics.UpdateQueueSize(len(q.awards))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns the consumption channel.
func (q *InMemoryQueue) Dequeue() <-chan Award {
	return q.awards
}

// Len returns the current number of queued awards.
func (q *InMemoryQueue) Len() int {
	return len(q.awards)
}

// Close stops the queue and signals consumers via channel close.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.awards)
	q.closed = true
	return nil
}
