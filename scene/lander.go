package scene

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
)

// Lander collision categories.
const (
	CategoryHull uint32 = 1 << iota
	CategoryGround
	CategoryFire
	CategoryLeg
	CategoryPad
)

const (
	landerGravity = 0.5
	landerMass    = 1.0
	angularDamp   = 8.0
	restSpeed     = 0.05
	landerStartY  = 8.0
	padY          = -15.0
)

var categoryNames = map[uint32]string{
	CategoryHull:   "hull",
	CategoryGround: "ground",
	CategoryFire:   "fire",
	CategoryLeg:    "leg",
	CategoryPad:    "pad",
}

// CategoryName returns the rule-script name of a lander category.
func CategoryName(c uint32) string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "none"
}

// Lander is the moon landing scene: steer the ship with the two side
// thrusters and set both legs down on a pad slowly and upright.
type Lander struct {
	base

	cfg   config.LanderConfig
	rules *Rules

	body       *cp.Body
	hull       *Object
	legs       [2]*Object
	thrusters  [2]*Object
	fires      [2]*Object
	pads       []*Object
	legDown    [2]bool
	landed     bool
	crashed    bool
	rulesError bool
}

// NewLander builds the scene. Rules come from the embedded script.
func NewLander(q event.Enqueuer, cfg *config.Config) (*Lander, error) {
	rules, err := LoadRules("")
	if err != nil {
		return nil, err
	}
	return NewLanderWithRules(q, cfg, rules)
}

// NewLanderWithRules builds the scene with an explicit rule set.
func NewLanderWithRules(q event.Enqueuer, cfg *config.Config, rules *Rules) (*Lander, error) {
	b, err := newBase("lander", q, cfg, landerGravity)
	if err != nil {
		return nil, err
	}
	l := &Lander{base: b, cfg: cfg.Lander, rules: rules}

	for _, pair := range [][2]uint32{
		{CategoryLeg, CategoryPad},
		{CategoryLeg, CategoryGround},
		{CategoryHull, CategoryGround},
		{CategoryHull, CategoryPad},
	} {
		l.world.ReportContacts(pair[0], pair[1])
	}

	l.buildTerrain()
	l.buildShip()
	l.camera.Follow(l.hull.X, l.hull.Y)
	l.camera.Smoothness = 0.2
	return l, nil
}

func (l *Lander) buildTerrain() {
	static := BoxOptions{Friction: 0.9}

	floor := l.add(&Object{Name: "Floor", X: 0, Y: padY - 4, W: 40, H: 7, Tint: colornames.Lightgray, Category: CategoryGround})
	l.world.AddBox(floor, static)

	for i, x := range []float64{0, 10, -10} {
		pad := l.add(&Object{Name: padName(i), X: x, Y: padY, W: 1, H: 1, Tint: colornames.Red, Category: CategoryPad})
		l.world.AddBox(pad, static)
		l.pads = append(l.pads, pad)
	}

	for i := -20; i < 20; i++ {
		if i == 0 || i == 10 || i == -10 {
			continue
		}
		rock := l.add(&Object{Name: "Rock", X: float64(i), Y: padY - 0.5, W: 1, H: 1, Angle: -math.Pi / 4, Tint: colornames.Whitesmoke, Category: CategoryGround})
		l.world.AddBox(rock, static)
	}
}

func padName(i int) string {
	return fmt.Sprintf("LandingPad%d", i+1)
}

func (l *Lander) buildShip() {
	mask := CategoryGround | CategoryPad

	l.hull = l.add(&Object{Name: "Hull", X: 0, Y: landerStartY, W: 0.5, H: 0.75, Tint: colornames.Silver, Category: CategoryHull})
	l.body = l.world.AddBox(l.hull, BoxOptions{Dynamic: true, Mass: landerMass, Mask: mask})
	DampAngular(l.body, angularDamp)

	for i, side := range []float64{-1, 1} {
		thruster := l.add(&Object{Name: sideName(i) + "Thruster", W: 0.25, H: 0.5, Tint: colornames.Slategray, Category: CategoryHull})
		l.world.AttachBox(thruster, l.body, side*0.375, 0, BoxOptions{Mask: mask})
		l.thrusters[i] = thruster

		fire := l.add(&Object{Name: sideName(i) + "Fire", W: 0.25, H: 0.25, Tint: colornames.Darkslategray, Category: CategoryFire})
		fire.Attach(l.body, side*0.375, -0.375)
		l.fires[i] = fire

		leg := l.add(&Object{Name: sideName(i) + "Leg", W: 0.125, H: 0.25, Tint: colornames.Silver, Category: CategoryLeg})
		l.world.AttachBox(leg, l.body, side*0.25, -0.5, BoxOptions{Mask: mask})
		l.legs[i] = leg
	}
}

func sideName(i int) string {
	if i == 0 {
		return "Left"
	}
	return "Right"
}

// Landed reports whether the ship is down safely.
func (l *Lander) Landed() bool { return l.landed }

// Crashed reports whether the ship touched something it should not have.
func (l *Lander) Crashed() bool { return l.crashed }

// Ship returns the hull object.
func (l *Lander) Ship() *Object { return l.hull }

// Pads returns the landing pads.
func (l *Lander) Pads() []*Object { return l.pads }

// LegsDown returns how many legs rest on a pad.
func (l *Lander) LegsDown() int {
	n := 0
	for _, down := range l.legDown {
		if down {
			n++
		}
	}
	return n
}

// Update runs one frame: thrusters and reset from the controller, physics
// step, landing check, status message and camera.
func (l *Lander) Update(dt float64) {
	c := l.controller

	if c.IsActionPressed(input.Reset) {
		l.reset()
	}

	flying := !l.landed && !l.crashed
	for i, a := range []input.Action{input.Left, input.Right} {
		lit := flying && c.IsActionHeld(a)
		if lit {
			// force is in body space, so it follows the ship's tilt
			l.body.ApplyForceAtLocalPoint(cp.Vector{X: 0, Y: l.cfg.Thrust}, l.thrusters[i].offset)
		}
		if lit {
			l.fires[i].Tint = colornames.Orange
		} else {
			l.fires[i].Tint = colornames.Darkslategray
		}
	}

	l.world.Step(dt)
	l.syncObjects()
	l.look(dt)

	speed := l.body.Velocity().Length()
	if l.legDown[0] && l.legDown[1] && !l.crashed && !l.landed && speed < restSpeed {
		l.landed = true
		log.Printf("lander: landed at x=%.2f", l.hull.X)
	}

	l.updateStatus(speed)
	l.updateCamera()
}

func (l *Lander) updateStatus(speed float64) {
	if l.rulesError {
		return
	}
	msg, err := l.rules.Status(LanderState{
		Speed:   speed,
		Angle:   normalizeAngle(l.body.Angle()),
		Legs:    l.LegsDown(),
		Landed:  l.landed,
		Crashed: l.crashed,
	}, Limits{MaxSpeed: l.cfg.MaxLandingSpeed, MaxAngle: l.cfg.MaxLandingAngle})
	if err != nil {
		// one report per scene; the script will not fix itself mid-run
		log.Printf("lander: status rule: %v", err)
		l.rulesError = true
		return
	}
	l.status = msg
}

// normalizeAngle maps a to (-pi, pi].
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// updateCamera follows the ship and zooms in as it nears the closest pad.
func (l *Lander) updateCamera() {
	l.camera.Follow(l.hull.X, l.hull.Y)
	if l.controller.IsActionHeld(input.ZoomIn) || l.controller.IsActionHeld(input.ZoomOut) {
		return
	}
	l.camera.SetZoom(l.zoomFor(l.nearestPadDistance()))
}

func (l *Lander) nearestPadDistance() float64 {
	best := math.Inf(1)
	for _, p := range l.pads {
		d := math.Hypot(l.hull.X-p.X, l.hull.Y-p.Y)
		if d < best {
			best = d
		}
	}
	return best
}

func (l *Lander) zoomFor(distance float64) float64 {
	lo, hi := l.cfg.MinZoom, l.cfg.MaxZoom
	if l.cfg.ZoomDistance <= 0 || distance >= l.cfg.ZoomDistance {
		return lo
	}
	f := 1 - distance/l.cfg.ZoomDistance
	return math.Min(hi, math.Max(lo, lo+f*(hi-lo)))
}

// OnEvent handles the collisions reported by the world.
func (l *Lander) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Collision:
		l.onCollision(e)
	}
}

func (l *Lander) onCollision(e event.Collision) {
	if l.landed || l.crashed {
		return
	}
	outcome, err := l.rules.Contact(CategoryName(e.A.Category), CategoryName(e.B.Category))
	if err != nil {
		log.Printf("lander: contact rule: %v", err)
		return
	}
	switch outcome {
	case OutcomeLegDown:
		for i, leg := range l.legs {
			if leg.ID == e.A.Object {
				l.legDown[i] = true
			}
		}
	case OutcomeCrash:
		l.crashed = true
		log.Printf("lander: crashed into %s", CategoryName(e.B.Category))
	}
}

// reset puts the ship back at the start, upright and at rest.
func (l *Lander) reset() {
	l.body.SetPosition(cp.Vector{X: 0, Y: landerStartY})
	l.body.SetAngle(0)
	l.body.SetVelocity(0, 0)
	l.body.SetAngularVelocity(0)
	l.syncObjects()

	l.legDown = [2]bool{}
	l.landed = false
	l.crashed = false
	l.status = ""
}
