package scene

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
)

// Pinball collision categories.
const (
	CategoryBall uint32 = 1 << (iota + 16)
	CategoryTable
	CategoryFlipper
	CategoryDrain
)

const (
	pinballGravity = 10.0
	flipperLength  = 4.0
	flipperSwing   = 0.5
	barSpeed       = 3.0
	barTravel      = 6.0
)

var (
	leftLane  = cp.Vector{X: -12.5, Y: 2}
	rightLane = cp.Vector{X: 12.5, Y: 2}

	ballStarts = []cp.Vector{leftLane, rightLane, leftLane.Add(cp.Vector{Y: 1.5})}
	ballTints  = []color.RGBA{colornames.Dodgerblue, colornames.Crimson, colornames.Limegreen}
)

// flipper is a bat pinned to the table at one end and swung by a motor
// between two angle limits.
type flipper struct {
	obj   *Object
	motor *cp.SimpleMotor
	// up is the sign of the angular velocity that raises the bat.
	up float64
}

// drive spins the bat at w rad/s. The motor holds b.w - a.w at -Rate, and
// the bat is body b.
func (f *flipper) drive(w float64) {
	f.motor.Rate = -w
}

// Pinball is a table with two flippers on Jump. A ball that reaches the
// drain is put back at the top of the lane on its side.
type Pinball struct {
	base

	cfg      config.PinballConfig
	balls    []*Object
	flippers [2]*flipper
	bar      *Object
	drained  int
}

func NewPinball(q event.Enqueuer, cfg *config.Config) (*Pinball, error) {
	b, err := newBase("pinball", q, cfg, pinballGravity)
	if err != nil {
		return nil, err
	}
	p := &Pinball{base: b, cfg: cfg.Pinball}
	p.world.ReportContacts(CategoryBall, CategoryDrain)

	p.buildTable()
	p.flippers[0] = p.addFlipper("LeftFlipper", cp.Vector{X: -6.5, Y: -7.3}, 1)
	p.flippers[1] = p.addFlipper("RightFlipper", cp.Vector{X: 6.5, Y: -7.3}, -1)

	for i, at := range ballStarts {
		ball := p.add(&Object{Name: fmt.Sprintf("Ball%d", i+1), X: at.X, Y: at.Y, W: 0.5, H: 0.5, Tint: ballTints[i], Category: CategoryBall})
		p.world.AddCircle(ball, BoxOptions{Dynamic: true, Mass: 1, Friction: 0.1})
		p.balls = append(p.balls, ball)
	}

	p.camera.Follow(0, 0)
	p.camera.SetZoom(0.8)
	return p, nil
}

func (p *Pinball) buildTable() {
	static := BoxOptions{Friction: 0.3}
	slope := math.Atan2(-3, 6.7)
	parts := []*Object{
		{Name: "Roof", X: 0, Y: 11, W: 29, H: 1},
		{Name: "WallLeft", X: -14, Y: 1, W: 1, H: 20},
		{Name: "WallRight", X: 14, Y: 1, W: 1, H: 20},
		{Name: "SlopeLeft", X: -10.15, Y: -5.5, W: 7.4, H: 0.5, Angle: slope},
		{Name: "SlopeRight", X: 10.15, Y: -5.5, W: 7.4, H: 0.5, Angle: -slope},
		{Name: "Bumper", X: 0, Y: 5, W: 1.5, H: 1.5, Angle: math.Pi / 4},
		{Name: "BumperLeft", X: -5, Y: 7, W: 1, H: 1, Angle: math.Pi / 4},
		{Name: "BumperRight", X: 5, Y: 7, W: 1, H: 1, Angle: math.Pi / 4},
	}
	for _, part := range parts {
		part.Tint = colornames.Lightgray
		part.Category = CategoryTable
		p.world.AddBox(p.add(part), static)
	}

	p.bar = p.add(&Object{Name: "Bar", X: 0, Y: 1, W: 3, H: 0.4, Tint: colornames.Limegreen, Category: CategoryTable})
	p.world.AddBox(p.bar, BoxOptions{Kinematic: true, Friction: 0.3}).SetVelocity(barSpeed, 0)

	drain := p.add(&Object{Name: "Drain", X: 0, Y: -10, W: 28, H: 1, Tint: colornames.Darkred, Category: CategoryDrain})
	p.world.AddBox(drain, BoxOptions{Sensor: true})
}

// addFlipper pins a bat at pivot. dir is +1 for a bat reaching right of its
// pivot, -1 for one reaching left.
func (p *Pinball) addFlipper(name string, pivot cp.Vector, dir float64) *flipper {
	const mass = 1.0
	space := p.world.Space()

	o := p.add(&Object{Name: name, W: flipperLength, H: 0.5, Tint: colornames.Gold, Category: CategoryFlipper})
	bb := cp.BB{L: -flipperLength / 2, B: -0.25, R: flipperLength / 2, T: 0.25}
	bb.L += dir * flipperLength / 2
	bb.R += dir * flipperLength / 2
	body := cp.NewBody(mass, cp.MomentForBox2(mass, bb))
	body.SetPosition(pivot)
	// at rest the tip hangs down
	body.SetAngle(-dir * flipperSwing)
	space.AddBody(body)
	p.world.AttachBox(o, body, dir*flipperLength/2, 0, BoxOptions{Friction: 0.3, Mask: CategoryBall})

	static := space.StaticBody
	space.AddConstraint(cp.NewPivotJoint(static, body, pivot))
	space.AddConstraint(cp.NewRotaryLimitJoint(static, body, -flipperSwing, flipperSwing))
	motor := cp.NewSimpleMotor(static, body, 0)
	motor.SetMaxForce(p.cfg.FlipperTorque)
	space.AddConstraint(motor)

	f := &flipper{obj: o, motor: motor.Class.(*cp.SimpleMotor), up: dir}
	f.drive(-f.up * p.cfg.FlipperSpeed)
	return f
}

// Balls returns the balls on the table.
func (p *Pinball) Balls() []*Object { return p.balls }

// Flippers returns the left and right bats.
func (p *Pinball) Flippers() [2]*Object {
	return [2]*Object{p.flippers[0].obj, p.flippers[1].obj}
}

// Drained returns how many times a ball has reached the drain.
func (p *Pinball) Drained() int { return p.drained }

func (p *Pinball) Update(dt float64) {
	c := p.controller

	w := -p.cfg.FlipperSpeed
	if c.IsActionHeld(input.Jump) {
		w = p.cfg.FlipperSpeed
	}
	for _, f := range p.flippers {
		f.drive(f.up * w)
	}

	if c.IsActionPressed(input.Reset) {
		p.reset()
	}

	bar := p.bar.Body()
	if x, vx := bar.Position().X, bar.Velocity().X; x > barTravel && vx > 0 || x < -barTravel && vx < 0 {
		bar.SetVelocity(-vx, 0)
	}

	p.world.Step(dt)
	p.syncObjects()
	p.look(dt)
	p.status = fmt.Sprintf("balls lost: %d", p.drained)
}

func (p *Pinball) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Collision:
		_, ball, ok := e.Involves(CategoryDrain)
		if !ok || ball.Category != CategoryBall {
			return
		}
		o := p.find(ball.Object)
		if o == nil {
			return
		}
		p.drained++
		lane := leftLane
		if o.X > 0 {
			lane = rightLane
		}
		p.place(o, lane)
		log.Printf("pinball: %s drained, back to lane x=%.1f", o.Name, lane.X)
	}
}

func (p *Pinball) place(o *Object, at cp.Vector) {
	body := o.Body()
	body.SetPosition(at)
	body.SetVelocity(0, 0)
	body.SetAngularVelocity(0)
	o.Sync()
}

// reset puts every ball back at its starting lane.
func (p *Pinball) reset() {
	for i, ball := range p.balls {
		p.place(ball, ballStarts[i])
	}
	p.drained = 0
}
