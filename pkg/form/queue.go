package form

import "sync"

// Queue is a FIFO of deferred work standing in for the host's update tick.
// Work queued while flushing runs in the same Flush, after what was queued
// before it.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// NextTick queues fn for the next Flush.
func (q *Queue) NextTick(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Schedule lets a Queue serve as a validation.Scheduler.
func (q *Queue) Schedule(fn func()) {
	q.NextTick(fn)
}

// Len reports the amount of queued work.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs queued work until the queue is empty and returns how many
// functions ran.
func (q *Queue) Flush() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return ran
		}
		next := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		next()
		ran++
	}
}
