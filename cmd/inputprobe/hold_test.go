package main

import (
	"testing"
	"time"

	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
	"github.com/milk9111/gameframe/input/key"
)

func TestHoldsSynthesizeRelease(t *testing.T) {
	q := event.NewQueue()
	h := newHolds(q, 100*time.Millisecond)
	c := input.NewController(nil)
	t0 := time.Unix(0, 0)

	frame := func(now time.Time) {
		h.expire(now)
		c.StartFrame()
		q.DrainAndDispatch(c)
	}

	// auto-repeat every 30ms keeps the key held
	h.press(key.Space, t0)
	frame(t0)
	if !c.IsActionPressed(input.Jump) {
		t.Fatalf("first report should press Jump")
	}
	for i := 1; i <= 5; i++ {
		now := t0.Add(time.Duration(i*30) * time.Millisecond)
		h.press(key.Space, now)
		frame(now)
		if !c.IsActionHeld(input.Jump) || c.IsActionPressed(input.Jump) {
			t.Fatalf("repeat %d should keep Jump held without a new press", i)
		}
	}

	frame(t0.Add(150 * time.Millisecond))
	if !c.IsActionHeld(input.Jump) {
		t.Fatalf("Jump released before the timeout")
	}
	frame(t0.Add(250 * time.Millisecond))
	if !c.IsActionReleased(input.Jump) {
		t.Fatalf("Jump should be released after the timeout")
	}
	if h.held() != 0 {
		t.Fatalf("held() = %d, want 0", h.held())
	}
}

func TestHoldsTrackKeysIndependently(t *testing.T) {
	q := event.NewQueue()
	h := newHolds(q, 100*time.Millisecond)
	t0 := time.Unix(0, 0)

	h.press(key.Letter('a'), t0)
	h.press(key.Letter('d'), t0.Add(80*time.Millisecond))
	h.expire(t0.Add(120 * time.Millisecond))

	var got []event.Event
	q.DrainAndDispatch(event.SinkFunc(func(ev event.Event) { got = append(got, ev) }))

	want := []event.Event{
		event.Press(key.Letter('a')),
		event.Press(key.Letter('d')),
		event.Release(key.Letter('a')),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if h.held() != 1 {
		t.Fatalf("D should still be held")
	}
}

func TestTerminalCode(t *testing.T) {
	cases := []struct {
		r    rune
		want key.Code
		ok   bool
	}{
		{'w', key.Letter('w'), true},
		{'W', key.Letter('w'), true},
		{'7', '7', true},
		{' ', key.Space, true},
		{'?', 0, false},
	}
	for _, c := range cases {
		got, ok := runeCode(c.r)
		if ok != c.ok || got != c.want {
			t.Fatalf("runeCode(%q) = %d, %v; want %d, %v", c.r, got, ok, c.want, c.ok)
		}
	}
}
