// Package queue defines the contract for enqueuing and consuming inbound
// SMS messages.
//
// The webhook must never block on interpretation work, so enqueue is
// non-blocking and reports backpressure to the caller.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10_000
)

// Message is the payload type flowing through the queue.
type Message = model.InboundMessage

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a message to the queue.
	// Returns false if the queue is full and the message was not enqueued.
	Enqueue(ctx context.Context, m Message) bool

	// Dequeue returns a channel that will receive messages as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Message

	// Len returns the current number of queued messages.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new
	// messages can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	messages chan Message
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	q.messages = make(chan Message, q.capacity)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a message to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Message) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.messages <- m:
		metrics.RecordQueueEnqueue()
		size := len(q.messages)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive messages as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Message {
	out := make(chan Message)
	go func() {
		defer close(out)
		for m := range q.messages {
			select {
			case out <- m:
				metrics.RecordQueueDequeue()
				size := len(q.messages)
				metrics.UpdateQueueSize(size)
				metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued messages.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.messages)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.messages)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
