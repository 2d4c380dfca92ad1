package main

import (
	"sync"
	"time"

	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input/key"
)

// holds turns the press-only key reports of a terminal into press/release
// pairs. A key is held while its auto-repeat keeps arriving and released once
// no report has been seen for the timeout.
type holds struct {
	mu      sync.Mutex
	timeout time.Duration
	queue   event.Enqueuer
	last    map[key.Code]time.Time
}

func newHolds(q event.Enqueuer, timeout time.Duration) *holds {
	return &holds{
		timeout: timeout,
		queue:   q,
		last:    make(map[key.Code]time.Time),
	}
}

// press records a report of c. Only the first report of a hold is enqueued.
func (h *holds) press(c key.Code, now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, held := h.last[c]; !held {
		h.queue.Enqueue(event.Press(c))
	}
	h.last[c] = now
}

// expire enqueues a release for every key whose repeat has stopped.
func (h *holds) expire(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c, t := range h.last {
		if now.Sub(t) >= h.timeout {
			delete(h.last, c)
			h.queue.Enqueue(event.Release(c))
		}
	}
}

// held returns the number of keys currently held.
func (h *holds) held() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.last)
}
