// Package worker drains the inbound message queue into the confirmation
// workflow.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/crease/internal/adapters/mq/queue"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Message is what workers read off the queue.
type Message = queue.Message

// Handler interprets one inbound message. Implementations serialize
// per-sender processing internally.
type Handler interface {
	HandleInboundMessage(ctx context.Context, from, body string) error
}

// Queue defines how workers receive messages.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Message
}

// Worker processes messages until stopped.
type Worker struct {
	queue   Queue
	handler Handler
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	log logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(q Queue, h Handler, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		handler:  h,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.log = w.log.Named(w.name)
	}

	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes,
// or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	messages := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case m, ok := <-messages:
			if !ok {
				return
			}
			if err := w.process(ctx, m); err != nil {
				w.log.Error(ctx, "error processing message", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process handles a single inbound message.
func (w *Worker) process(ctx context.Context, m Message) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.handler.HandleInboundMessage(ctx, m.From, m.Body); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "workflow_error")
		w.log.Error(ctx, "workflow failed for message",
			logger.String("messageID", m.MessageID),
			logger.Error(err),
		)
		return fmt.Errorf("handle message %s: %w", m.MessageID, err)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	queue   Queue
	handler Handler

	shutdown chan struct{}

	log logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, h Handler) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		queue:    q,
		handler:  h,
		shutdown: make(chan struct{}),
		log:      logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(q, h, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue first, then waits for workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.log.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.log.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)

	return nil
}
