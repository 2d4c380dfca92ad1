package scene

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input/key"
)

func newTestPinball(t *testing.T) (*Pinball, *event.Queue) {
	t.Helper()
	q := event.NewQueue()
	p, err := NewPinball(q, config.Default())
	if err != nil {
		t.Fatalf("NewPinball: %v", err)
	}
	return p, q
}

func TestPinballFlippers(t *testing.T) {
	const near = 0.1
	cases := []struct {
		name      string
		drive     func(q *event.Queue, p *Pinball)
		wantLeft  float64
		wantRight float64
	}{
		{"at_rest", func(q *event.Queue, p *Pinball) {
			runFrames(p, q, 30)
		}, -flipperSwing, flipperSwing},
		{"held_raises", func(q *event.Queue, p *Pinball) {
			q.Enqueue(event.Press(key.Space))
			runFrames(p, q, 30)
		}, flipperSwing, -flipperSwing},
		{"released_drops", func(q *event.Queue, p *Pinball) {
			q.Enqueue(event.Press(key.Space))
			runFrames(p, q, 30)
			q.Enqueue(event.Release(key.Space))
			runFrames(p, q, 30)
		}, -flipperSwing, flipperSwing},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, q := newTestPinball(t)
			c.drive(q, p)

			bats := p.Flippers()
			if got := bats[0].Body().Angle(); math.Abs(got-c.wantLeft) > near {
				t.Fatalf("left flipper angle = %v, want %v", got, c.wantLeft)
			}
			if got := bats[1].Body().Angle(); math.Abs(got-c.wantRight) > near {
				t.Fatalf("right flipper angle = %v, want %v", got, c.wantRight)
			}
		})
	}
}

func TestPinballFlipperStaysPinned(t *testing.T) {
	p, q := newTestPinball(t)
	pivot := p.Flippers()[0].Body().Position()
	for i := 0; i < 4; i++ {
		q.Enqueue(event.Press(key.Space))
		runFrames(p, q, 10)
		q.Enqueue(event.Release(key.Space))
		runFrames(p, q, 10)
	}
	if d := p.Flippers()[0].Body().Position().Distance(pivot); d > 0.05 {
		t.Fatalf("left flipper drifted %v from its pivot", d)
	}
}

func TestPinballDrainRespawns(t *testing.T) {
	cases := []struct {
		name string
		at   cp.Vector
		want cp.Vector
	}{
		{"left_half", cp.Vector{X: -3, Y: -9.5}, leftLane},
		{"centre_goes_left", cp.Vector{X: 0, Y: -9.5}, leftLane},
		{"right_half", cp.Vector{X: 3, Y: -9.5}, rightLane},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _ := newTestPinball(t)
			ball := p.Balls()[1]
			p.place(ball, c.at)
			ball.Body().SetVelocity(0, -8)

			p.OnEvent(event.Collision{A: contactOf(ball), B: contactOf(objectNamed(p, "Drain"))})

			if p.Drained() != 1 {
				t.Fatalf("drained = %d", p.Drained())
			}
			if got := ball.Body().Position(); got != c.want {
				t.Fatalf("ball at %v, want %v", got, c.want)
			}
			if ball.Body().Velocity().Length() != 0 {
				t.Fatalf("respawned ball still moving")
			}
		})
	}
}

func TestPinballIgnoresNonBallDrainContacts(t *testing.T) {
	p, _ := newTestPinball(t)
	p.OnEvent(event.Collision{A: contactOf(p.Flippers()[0]), B: contactOf(objectNamed(p, "Drain"))})
	p.OnEvent(event.Collision{A: contactOf(p.Balls()[0]), B: contactOf(objectNamed(p, "Roof"))})
	if p.Drained() != 0 {
		t.Fatalf("drained = %d", p.Drained())
	}
}

func TestPinballBallFallsThroughGap(t *testing.T) {
	p, q := newTestPinball(t)
	ball := p.Balls()[0]
	p.place(ball, cp.Vector{X: 0, Y: -5})

	for i := 0; i < 120 && p.Drained() == 0; i++ {
		runFrames(p, q, 1)
	}
	if p.Drained() == 0 {
		t.Fatalf("ball dropped between the flippers never drained, y=%v", ball.Y)
	}
	if math.Abs(ball.X-leftLane.X) > 0.1 || ball.Y < leftLane.Y-0.5 {
		t.Fatalf("drained ball at (%v,%v), want the left lane", ball.X, ball.Y)
	}
}

func TestPinballBarSweeps(t *testing.T) {
	p, q := newTestPinball(t)
	bar := objectNamed(p, "Bar")
	lo, hi := bar.X, bar.X
	for i := 0; i < 600; i++ {
		runFrames(p, q, 1)
		lo, hi = math.Min(lo, bar.X), math.Max(hi, bar.X)
	}
	if hi < barTravel || lo > -barTravel {
		t.Fatalf("bar swept [%v,%v], want past ±%v", lo, hi, barTravel)
	}
	if hi > barTravel+0.2 || lo < -barTravel-0.2 {
		t.Fatalf("bar overran its travel: [%v,%v]", lo, hi)
	}
}

func TestPinballReset(t *testing.T) {
	p, q := newTestPinball(t)
	runFrames(p, q, 90)
	q.Enqueue(event.Press(key.Letter('r')))
	runFrames(p, q, 1)

	for i, ball := range p.Balls() {
		if ball.Body().Position().Distance(ballStarts[i]) > 0.1 {
			t.Fatalf("%s at %v after reset, want %v", ball.Name, ball.Body().Position(), ballStarts[i])
		}
	}
	if p.Drained() != 0 {
		t.Fatalf("reset kept the drain count")
	}
}
