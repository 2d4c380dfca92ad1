package event

import "sync"

// Sink receives dispatched events.
type Sink interface {
	OnEvent(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

// Enqueuer accepts events from producers.
type Enqueuer interface {
	Enqueue(ev Event)
}

// Queue is a FIFO of pending events.
//
// Enqueue, Len and Clear may be called from any goroutine. DrainAndDispatch
// must only be called from the consumer (the game loop).
type Queue struct {
	mu      sync.Mutex
	pending []Event
	spare   []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends ev to the tail. The queue owns ev from here on.
func (q *Queue) Enqueue(ev Event) {
	if q == nil || ev == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// DrainAndDispatch hands every event pending at the time of the call to sink,
// in order, and returns how many were dispatched. Events enqueued while the
// drain runs are left for the next call.
//
// If sink panics, the events it has not seen yet go back to the head of the
// queue and the panic continues.
func (q *Queue) DrainAndDispatch(sink Sink) int {
	if q == nil {
		return 0
	}

	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.spare = nil
	q.mu.Unlock()

	if len(batch) == 0 {
		q.recycle(batch)
		return 0
	}

	n := 0
	defer func() {
		if n < len(batch) {
			q.restore(batch[n:])
		}
		clear(batch)
		q.recycle(batch)
	}()

	for i := range batch {
		ev := batch[i]
		batch[i] = nil
		n = i + 1
		if sink != nil {
			sink.OnEvent(ev)
		}
	}
	return n
}

// restore puts undispatched events back ahead of anything enqueued since the
// drain started.
func (q *Queue) restore(rest []Event) {
	if len(rest) == 0 {
		return
	}
	q.mu.Lock()
	merged := make([]Event, 0, len(rest)+len(q.pending))
	merged = append(merged, rest...)
	merged = append(merged, q.pending...)
	q.pending = merged
	q.mu.Unlock()
}

func (q *Queue) recycle(batch []Event) {
	if batch == nil {
		return
	}
	q.mu.Lock()
	if q.spare == nil {
		q.spare = batch[:0]
	}
	q.mu.Unlock()
}

// Clear releases every pending event without dispatching it and returns how
// many were dropped.
func (q *Queue) Clear() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	clear(q.pending)
	q.pending = q.pending[:0]
	return n
}
