package scene

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
)

// Golf collision categories.
const (
	CategoryGolfBall uint32 = 1 << (iota + 12)
	CategoryHole
	CategoryTree
	CategoryFairway
)

const (
	// fraction of its speed the ball keeps each second on the grass
	golfDamping = 0.5
	// trees stay this far from the tee and the hole
	treeClearance = 3.0
	courseW       = 40.0
	courseH       = 24.0
)

var (
	teePosition  = cp.Vector{X: -14, Y: -6}
	holePosition = cp.Vector{X: 12, Y: 6}
)

// Golf is a top-down putting green. Holding Jump charges the shot one power
// level per interval, releasing it hits the ball along the aim line, and
// Left/Right turn the aim. Reset puts the ball back on the tee and replants
// the trees.
type Golf struct {
	base

	cfg    config.GolfConfig
	rng    *rand.Rand
	ball   *Object
	aim    *Object
	trees  []*Object
	angle  float64
	power  int
	charge float64

	strokes int
	lastHit int
	inHole  bool
}

func NewGolf(q event.Enqueuer, cfg *config.Config) (*Golf, error) {
	b, err := newBase("golf", q, cfg, 0)
	if err != nil {
		return nil, err
	}
	g := &Golf{
		base: b,
		cfg:  cfg.Golf,
		rng:  rand.New(rand.NewPCG(3, 4)),
	}
	g.world.Space().SetDamping(golfDamping)
	g.world.ReportContacts(CategoryGolfBall, CategoryHole)

	g.buildCourse()
	g.ball = g.add(&Object{Name: "Ball", X: teePosition.X, Y: teePosition.Y, W: 0.5, H: 0.5, Tint: colornames.White, Category: CategoryGolfBall})
	g.world.AddCircle(g.ball, BoxOptions{Dynamic: true, Mass: 1, Friction: 0.2})
	g.aim = g.add(&Object{Name: "Aim", W: 0.3, H: 0.3, Tint: colornames.Yellow})
	g.plantTrees()

	g.angle = g.teeAngle()
	g.placeAim()
	g.camera.Follow(g.ball.X, g.ball.Y)
	g.camera.Smoothness = 0.2
	return g, nil
}

func (g *Golf) buildCourse() {
	static := BoxOptions{Friction: 0.5}
	hw, hh := courseW/2, courseH/2
	walls := []*Object{
		{Name: "WallTop", X: 0, Y: hh + 0.5, W: courseW + 2, H: 1},
		{Name: "WallBottom", X: 0, Y: -hh - 0.5, W: courseW + 2, H: 1},
		{Name: "WallLeft", X: -hw - 0.5, Y: 0, W: 1, H: courseH},
		{Name: "WallRight", X: hw + 0.5, Y: 0, W: 1, H: courseH},
	}
	for _, w := range walls {
		w.Tint = colornames.Saddlebrown
		w.Category = CategoryFairway
		g.world.AddBox(g.add(w), static)
	}

	hole := g.add(&Object{Name: "Hole", X: holePosition.X, Y: holePosition.Y, W: 1, H: 1, Tint: colornames.Black, Category: CategoryHole})
	g.world.AddBox(hole, BoxOptions{Sensor: true})
}

// plantTrees scatters the configured number of trees over the course, away
// from the tee and the hole.
func (g *Golf) plantTrees() {
	hw, hh := courseW/2-1, courseH/2-1
	for len(g.trees) < g.cfg.Trees {
		p := cp.Vector{X: (g.rng.Float64()*2 - 1) * hw, Y: (g.rng.Float64()*2 - 1) * hh}
		if p.Distance(teePosition) < treeClearance || p.Distance(holePosition) < treeClearance {
			continue
		}
		tree := g.add(&Object{Name: fmt.Sprintf("Tree%d", len(g.trees)+1), X: p.X, Y: p.Y, W: 1, H: 1, Tint: colornames.Forestgreen, Category: CategoryTree})
		g.world.AddBox(tree, BoxOptions{Friction: 0.5})
		g.trees = append(g.trees, tree)
	}
}

func (g *Golf) teeAngle() float64 {
	d := holePosition.Sub(teePosition)
	return math.Atan2(d.Y, d.X)
}

// placeAim puts the aim marker just past the ball on the aim line.
func (g *Golf) placeAim() {
	p := g.ball.Body().Position().Add(cp.ForAngle(g.angle).Mult(1.2))
	g.aim.X, g.aim.Y = p.X, p.Y
	g.aim.Angle = g.angle
}

// Ball returns the golf ball.
func (g *Golf) Ball() *Object { return g.ball }

// Trees returns the planted trees.
func (g *Golf) Trees() []*Object { return g.trees }

// Power returns the charge of the shot being held.
func (g *Golf) Power() int { return g.power }

// Strokes returns the shots taken since the last reset.
func (g *Golf) Strokes() int { return g.strokes }

// LastHit returns the power of the previous shot.
func (g *Golf) LastHit() int { return g.lastHit }

// InHole reports whether the ball has dropped.
func (g *Golf) InHole() bool { return g.inHole }

// AimAngle returns the aim direction in radians.
func (g *Golf) AimAngle() float64 { return g.angle }

func (g *Golf) Update(dt float64) {
	c := g.controller

	if c.IsActionPressed(input.Reset) {
		g.reset()
	}

	if !g.inHole {
		if c.IsActionHeld(input.Left) {
			g.angle += g.cfg.AimSpeed * dt
		}
		if c.IsActionHeld(input.Right) {
			g.angle -= g.cfg.AimSpeed * dt
		}

		switch {
		case c.IsActionHeld(input.Jump):
			g.charge -= dt
			if g.charge <= 0 {
				g.power = min(g.power+1, g.cfg.MaxPower)
				g.charge = g.cfg.PowerInterval
			}
		case c.IsActionReleased(input.Jump):
			g.shoot()
		}
	}

	g.world.Step(dt)
	g.syncObjects()
	g.placeAim()
	g.look(dt)
	g.camera.Follow(g.ball.X, g.ball.Y)

	if g.inHole {
		g.status = fmt.Sprintf("You Win :) Strokes: %d", g.strokes)
	} else {
		g.status = fmt.Sprintf("Power: %d  Strokes: %d  Last hit: %d", g.power, g.strokes, g.lastHit)
	}
}

// shoot hits the ball with the held power. A release with no charge is not a
// stroke.
func (g *Golf) shoot() {
	power := g.power
	g.power = 0
	g.charge = 0
	if power == 0 {
		return
	}

	body := g.ball.Body()
	impulse := cp.ForAngle(g.angle).Mult(float64(power) * g.cfg.ImpulsePerPower)
	body.ApplyImpulseAtWorldPoint(impulse, body.Position())
	g.lastHit = power
	g.strokes++
}

func (g *Golf) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Collision:
		if _, _, ok := e.Involves(CategoryHole); !ok || g.inHole {
			return
		}
		g.sink()
	}
}

func (g *Golf) sink() {
	g.inHole = true
	body := g.ball.Body()
	body.SetPosition(holePosition)
	body.SetVelocity(0, 0)
	body.SetAngularVelocity(0)
	g.ball.Sync()
	g.power = 0
	g.charge = 0
	log.Printf("golf: in the hole after %d strokes", g.strokes)
}

// reset puts the ball back on the tee, clears the score and replants the
// trees.
func (g *Golf) reset() {
	body := g.ball.Body()
	body.SetPosition(teePosition)
	body.SetVelocity(0, 0)
	body.SetAngularVelocity(0)
	g.ball.Sync()

	for _, t := range g.trees {
		g.remove(t.ID)
	}
	g.trees = g.trees[:0]
	g.plantTrees()

	g.angle = g.teeAngle()
	g.power = 0
	g.charge = 0
	g.strokes = 0
	g.lastHit = 0
	g.inHole = false
	g.status = ""
}
