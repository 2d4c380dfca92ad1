package scene

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
)

// Sandbox collision categories.
const (
	CategoryPlayer uint32 = 1 << (iota + 8)
	CategoryCrate
	CategoryFloor
	CategoryKill
)

const (
	sandboxGravity = 10.0
	// minimum upward component of a contact normal that counts as ground
	groundNormalY = 0.5
)

var playerStart = cp.Vector{X: -13.5, Y: 1}

// Sandbox is a box playground: a player box, a row of crates and a pit.
// Anything that falls into the pit is removed through a RemoveObject event.
type Sandbox struct {
	base

	cfg     config.SandboxConfig
	rng     *rand.Rand
	player  *Object
	crates  map[event.ObjectID]*Object
	removed int
}

func NewSandbox(q event.Enqueuer, cfg *config.Config) (*Sandbox, error) {
	b, err := newBase("sandbox", q, cfg, sandboxGravity)
	if err != nil {
		return nil, err
	}
	s := &Sandbox{
		base:   b,
		cfg:    cfg.Sandbox,
		rng:    rand.New(rand.NewPCG(1, 2)),
		crates: make(map[event.ObjectID]*Object),
	}

	s.world.ReportContacts(CategoryCrate, CategoryKill)
	s.world.ReportContacts(CategoryPlayer, CategoryKill)

	s.buildLevel()
	s.player = s.add(&Object{Name: "Player", X: playerStart.X, Y: playerStart.Y, W: 1, H: 1, Tint: colornames.Dodgerblue, Category: CategoryPlayer})
	s.world.AddBox(s.player, BoxOptions{Dynamic: true, Mass: 1, Friction: 0.4, FixedRotation: true})
	s.spawnCrates()

	s.camera.Follow(0, 0)
	return s, nil
}

func (s *Sandbox) buildLevel() {
	static := BoxOptions{}
	parts := []*Object{
		{Name: "Floor", X: -5, Y: -0.5, W: 20, H: 1},
		{Name: "Ledge", X: 12.5, Y: -0.5, W: 5, H: 1},
		{Name: "WallLeft", X: -15.5, Y: 5, W: 1, H: 12},
		{Name: "WallRight", X: 15.5, Y: 5, W: 1, H: 12},
	}
	for _, p := range parts {
		p.Tint = colornames.Lightgray
		p.Category = CategoryFloor
		s.world.AddBox(s.add(p), static)
	}

	kill := s.add(&Object{Name: "Pit", X: 0, Y: -8, W: 40, H: 2, Tint: colornames.Darkred, Category: CategoryKill})
	s.world.AddBox(kill, BoxOptions{Sensor: true})
}

// spawnCrates drops a row of crates; the ones over the pit fall in.
func (s *Sandbox) spawnCrates() {
	for i := 0; i < s.cfg.Crates; i++ {
		x := -9 + float64(i)*2.5
		crate := s.add(&Object{Name: fmt.Sprintf("Crate%d", i+1), X: x, Y: 3, W: 0.8, H: 0.8, Tint: colornames.Burlywood, Category: CategoryCrate})
		s.world.AddBox(crate, BoxOptions{Dynamic: true, Mass: 0.5})
		s.crates[crate.ID] = crate
	}
}

// Player returns the player box.
func (s *Sandbox) Player() *Object { return s.player }

// Crates returns the number of crates still in play.
func (s *Sandbox) Crates() int { return len(s.crates) }

// Removed returns how many objects the pit has taken.
func (s *Sandbox) Removed() int { return s.removed }

func (s *Sandbox) Update(dt float64) {
	c := s.controller
	body := s.player.Body()
	v := body.Velocity()

	vx := 0.0
	if c.IsActionHeld(input.Left) {
		vx -= s.cfg.MoveSpeed
	}
	if c.IsActionHeld(input.Right) {
		vx += s.cfg.MoveSpeed
	}
	vy := v.Y
	if c.IsActionPressed(input.Jump) && s.grounded() {
		vy = s.cfg.JumpSpeed
	}
	body.SetVelocity(vx, vy)

	if c.IsActionPressed(input.Teleport) {
		r := s.cfg.TeleportRange
		s.movePlayer(cp.Vector{X: s.rng.Float64() * r, Y: s.rng.Float64() * r})
	}
	if c.IsActionPressed(input.Reset) {
		s.reset()
	}

	s.world.Step(dt)
	s.syncObjects()
	s.look(dt)
	s.status = fmt.Sprintf("crates: %d  removed: %d", len(s.crates), s.removed)
}

// grounded reports whether the player rests on something below it, judged by
// the contacts of the last step.
func (s *Sandbox) grounded() bool {
	on := false
	s.player.Body().EachArbiter(func(arb *cp.Arbiter) {
		if arb.Normal().Neg().Y > groundNormalY {
			on = true
		}
	})
	return on
}

func (s *Sandbox) movePlayer(p cp.Vector) {
	body := s.player.Body()
	body.SetPosition(p)
	body.SetVelocity(0, 0)
	s.player.Sync()
}

// reset clears the crates still in play and drops a fresh row.
func (s *Sandbox) reset() {
	for id := range s.crates {
		s.remove(id)
	}
	clear(s.crates)
	s.movePlayer(playerStart)
	s.spawnCrates()
}

func (s *Sandbox) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Collision:
		_, victim, ok := e.Involves(CategoryKill)
		if !ok {
			return
		}
		if victim.Category == CategoryPlayer {
			s.movePlayer(playerStart)
			return
		}
		// removing a body is not allowed inside the solver, so the removal
		// travels through the queue
		s.queue.Enqueue(event.RemoveObject{Object: victim.Object})
	case event.RemoveObject:
		if s.remove(e.Object) {
			delete(s.crates, e.Object)
			s.removed++
			log.Printf("sandbox: removed object %d", e.Object)
		}
	}
}
