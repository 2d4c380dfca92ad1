package scene

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input/key"
)

func newTestSandbox(t *testing.T) (*Sandbox, *event.Queue) {
	t.Helper()
	q := event.NewQueue()
	s, err := NewSandbox(q, config.Default())
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	return s, q
}

func objectNamed(s Scene, name string) *Object {
	for _, o := range s.Objects() {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func TestSandboxPitRemovesCrates(t *testing.T) {
	s, q := newTestSandbox(t)
	start := s.Crates()

	runFrames(s, q, 300)

	if s.Removed() == 0 {
		t.Fatalf("no crate fell into the pit")
	}
	if s.Crates() != start-s.Removed() {
		t.Fatalf("crates = %d, want %d", s.Crates(), start-s.Removed())
	}
	if o := objectNamed(s, "Crate8"); o != nil {
		t.Fatalf("crate over the pit still present at y=%v", o.Y)
	}
}

func TestSandboxKillContactGoesThroughQueue(t *testing.T) {
	s, q := newTestSandbox(t)
	crate := objectNamed(s, "Crate1")
	pit := objectNamed(s, "Pit")

	s.OnEvent(event.Collision{A: contactOf(crate), B: contactOf(pit)})
	if s.find(crate.ID) == nil {
		t.Fatalf("crate removed inside the collision dispatch")
	}
	if q.Len() != 1 {
		t.Fatalf("expected a queued RemoveObject, have %d events", q.Len())
	}

	q.DrainAndDispatch(s)
	if s.find(crate.ID) != nil {
		t.Fatalf("crate still present after RemoveObject")
	}
	if s.Removed() != 1 {
		t.Fatalf("removed = %d", s.Removed())
	}

	s.OnEvent(event.RemoveObject{Object: crate.ID})
	if s.Removed() != 1 {
		t.Fatalf("second removal of the same object counted")
	}
}

func TestSandboxPlayerInPitRespawns(t *testing.T) {
	s, q := newTestSandbox(t)
	s.movePlayer(playerStart.Add(playerStart))
	s.OnEvent(event.Collision{A: contactOf(s.Player()), B: contactOf(objectNamed(s, "Pit"))})
	if q.Len() != 0 {
		t.Fatalf("player must not be removed")
	}
	if s.Player().X != playerStart.X || s.Player().Y != playerStart.Y {
		t.Fatalf("player not respawned: (%v,%v)", s.Player().X, s.Player().Y)
	}
}

func TestSandboxTeleport(t *testing.T) {
	s, q := newTestSandbox(t)
	r := config.Default().Sandbox.TeleportRange

	for i := 0; i < 5; i++ {
		q.Enqueue(event.Press(key.Letter('z')))
		runFrames(s, q, 1)
		p := s.Player()
		if p.X < -1 || p.X > r+1 || p.Y < -1 || p.Y > r+1 {
			t.Fatalf("teleport %d landed outside the range: (%v,%v)", i, p.X, p.Y)
		}
		q.Enqueue(event.Release(key.Letter('z')))
		runFrames(s, q, 1)
	}
}

func TestSandboxMoveAndJump(t *testing.T) {
	s, q := newTestSandbox(t)
	runFrames(s, q, 90)
	x0 := s.Player().X

	q.Enqueue(event.Press(key.Right))
	runFrames(s, q, 30)
	if s.Player().X <= x0+1 {
		t.Fatalf("player did not move right: %v -> %v", x0, s.Player().X)
	}
	q.Enqueue(event.Release(key.Right))
	runFrames(s, q, 30)

	q.Enqueue(event.Press(key.Space))
	runFrames(s, q, 1)
	if v := s.Player().Body().Velocity(); v.Y <= 0 {
		t.Fatalf("jump did not lift the player, vy=%v", v.Y)
	}
}

func TestSandboxJumpNeedsGround(t *testing.T) {
	cases := []struct {
		name     string
		settle   int
		airborne bool
		wantJump bool
	}{
		{"resting_on_floor", 90, false, true},
		{"still_in_mid_air", 90, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, q := newTestSandbox(t)
			runFrames(s, q, c.settle)
			if c.airborne {
				s.movePlayer(cp.Vector{X: playerStart.X, Y: 6})
				runFrames(s, q, 1)
				// zero vertical speed, as at the top of a jump
				s.Player().Body().SetVelocity(0, 0)
			}

			q.Enqueue(event.Press(key.Space))
			runFrames(s, q, 1)
			jumped := s.Player().Body().Velocity().Y > 0
			if jumped != c.wantJump {
				t.Fatalf("jumped = %v, want %v (vy=%v)", jumped, c.wantJump, s.Player().Body().Velocity().Y)
			}
		})
	}
}

func TestSandboxReset(t *testing.T) {
	s, q := newTestSandbox(t)
	runFrames(s, q, 300)

	q.Enqueue(event.Press(key.Letter('r')))
	runFrames(s, q, 1)
	if s.Crates() != config.Default().Sandbox.Crates {
		t.Fatalf("crates after reset = %d", s.Crates())
	}
}
