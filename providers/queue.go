package providers

import (
	"context"
	"io"
	"sync"
)

// DefaultQueueSize is the capacity used when NewQueue is given a non-positive size.
const DefaultQueueSize = 64

// Queue turns push-style event delivery into the pull-style NextEvent contract.
// It has exactly one producer (the backend's delivery goroutine) and one
// consumer (the relay's downlink pump). Push blocks while the queue is full,
// which pushes back on the backend instead of dropping events.
type Queue struct {
	events   chan Event
	finished chan struct{}
	done     chan struct{}

	finishOnce sync.Once
	closeOnce  sync.Once
}

// NewQueue creates a queue holding at most size undelivered events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events:   make(chan Event, size),
		finished: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Push enqueues an event. It returns false if the event was discarded because
// the stream already finished or the consumer closed the queue.
func (q *Queue) Push(ev Event) bool {
	select {
	case <-q.finished:
		return false
	case <-q.done:
		return false
	default:
	}

	select {
	case q.events <- ev:
		return true
	case <-q.done:
		return false
	}
}

// Finish marks the end of the stream. Events already queued are still
// delivered before Next reports io.EOF. Only the producer calls Finish.
func (q *Queue) Finish() {
	q.finishOnce.Do(func() { close(q.finished) })
}

// Close is called by the consumer when it stops reading. Pending and future
// pushes are released.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Next returns the next event in delivery order. It returns io.EOF after the
// producer finished and the queue drained, or after Close.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.events:
		return ev, nil
	default:
	}

	select {
	case ev := <-q.events:
		return ev, nil
	case <-q.finished:
		select {
		case ev := <-q.events:
			return ev, nil
		default:
			return nil, io.EOF
		}
	case <-q.done:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
