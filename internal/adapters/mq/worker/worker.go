// Package worker applies settlement awards from the queue to the
// store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/pkg/logger"
	"github.com/scorecast/scorecast/pkg/metrics"
)

// Award is what workers read off the queue.
type Award = model.Award

// Updater mutates point totals. The store implements it.
type Updater interface {
	AddPoints(ctx context.Context, userID int64, delta int) error
}

// Queue defines how workers receive awards.
type Queue interface {
	Dequeue() <-chan Award
}

// Worker drains the queue and applies awards until the queue closes or
// the context is canceled.
type Worker struct {
	queue   Queue
	updater Updater
	logger  logger.Logger
	done    chan struct{}
}

// NewWorker creates a worker consuming from queue.
func NewWorker(queue Queue, updater Updater, name string) *Worker {
	return &Worker{
		queue:   queue,
		updater: updater,
		logger:  logger.Get().Named(name),
		done:    make(chan struct{}),
	}
}

// Run is the worker loop. It returns when the queue channel closes or
// ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-w.queue.Dequeue():
			if !ok {
				return
			}
			if err := w.apply(ctx, a); err != nil {
				metrics.RecordWorkerError()
				w.logger.Error(ctx, "award failed",
					logger.String("event_id", a.EventID),
					logger.Int64("user_id", a.UserID),
					logger.Error(err),
				)
				continue
			}
			metrics.RecordAwardApplied()
		}
	}
}

func (w *Worker) apply(ctx context.Context, a Award) error {
	if err := w.updater.AddPoints(ctx, a.UserID, a.Delta); err != nil {
		return fmt.Errorf("apply award %s: %w", a.EventID, err)
	}
	return nil
}

// Pool manages a set of workers over one queue.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewPool creates count workers consuming from queue.
func NewPool(count int, queue Queue, updater Updater) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{workers: make([]*Worker, count)}
	for i := range p.workers {
		p.workers[i] = NewWorker(queue, updater, "award-worker-"+strconv.Itoa(i))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Stop cancels all workers and waits for them to finish. Closing the
// queue first lets workers drain remaining awards instead.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Wait blocks until all workers have returned, without canceling them.
// Useful after closing the queue to let the pool drain.
func (p *Pool) Wait() {
	p.wg.Wait()
}
