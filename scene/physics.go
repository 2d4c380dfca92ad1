package scene

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/gameframe/event"
)

// World owns the chipmunk space for one scene. Contacts between registered
// category pairs are reported as Collision events on the queue; nothing is
// mutated from inside the solver.
type World struct {
	space *cp.Space
	queue event.Enqueuer

	contacts map[*cp.Shape]event.Contact
	owned    map[event.ObjectID]*cp.Body
	shapes   map[event.ObjectID][]*cp.Shape
	debug    bool
}

// NewWorld creates a space with gravity along -y.
func NewWorld(q event.Enqueuer, gravity float64) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})

	return &World{
		space:    space,
		queue:    q,
		contacts: make(map[*cp.Shape]event.Contact),
		owned:    make(map[event.ObjectID]*cp.Body),
		shapes:   make(map[event.ObjectID][]*cp.Shape),
	}
}

// Space returns the underlying chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// SetDebug enables per-contact logging.
func (w *World) SetDebug(debug bool) {
	w.debug = debug
}

// BoxOptions describes the body created for an object.
type BoxOptions struct {
	Dynamic bool
	// Kinematic bodies move at the velocity they are given and ignore
	// forces. Dynamic wins when both are set.
	Kinematic bool
	Mass      float64
	Friction  float64
	Sensor    bool
	// FixedRotation gives a dynamic body infinite moment.
	FixedRotation bool
	// Mask lists the categories this shape collides with. Zero collides
	// with everything.
	Mask uint32
}

// AddBox gives o its own body and a box shape matching its size and pose.
func (w *World) AddBox(o *Object, opts BoxOptions) *cp.Body {
	body := w.newBody(o, opts, func(mass float64) float64 {
		return cp.MomentForBox(mass, o.W, o.H)
	})
	w.addShape(o, cp.NewBox(body, o.W, o.H, 0), opts)
	return body
}

// AddCircle gives o its own body and a circle shape of diameter o.W.
func (w *World) AddCircle(o *Object, opts BoxOptions) *cp.Body {
	r := o.W / 2
	body := w.newBody(o, opts, func(mass float64) float64 {
		return cp.MomentForCircle(mass, 0, r, cp.Vector{})
	})
	w.addShape(o, cp.NewCircle(body, r, cp.Vector{}), opts)
	return body
}

func (w *World) newBody(o *Object, opts BoxOptions, moment func(mass float64) float64) *cp.Body {
	var body *cp.Body
	switch {
	case opts.Dynamic:
		mass := opts.Mass
		if mass <= 0 {
			mass = 1
		}
		i := moment(mass)
		if opts.FixedRotation {
			i = math.Inf(1)
		}
		body = cp.NewBody(mass, i)
	case opts.Kinematic:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewStaticBody()
	}
	body.SetPosition(cp.Vector{X: o.X, Y: o.Y})
	body.SetAngle(o.Angle)
	w.space.AddBody(body)
	w.owned[o.ID] = body

	o.body = body
	o.offset = cp.Vector{}
	return body
}

// AttachBox puts a box shape for o on an existing body at a local offset.
func (w *World) AttachBox(o *Object, body *cp.Body, offsetX, offsetY float64, opts BoxOptions) {
	o.body = body
	o.offset = cp.Vector{X: offsetX, Y: offsetY}
	bb := cp.BB{
		L: offsetX - o.W/2,
		B: offsetY - o.H/2,
		R: offsetX + o.W/2,
		T: offsetY + o.H/2,
	}
	w.addShape(o, cp.NewBox2(body, bb, 0), opts)
	o.Sync()
}

func (w *World) addShape(o *Object, shape *cp.Shape, opts BoxOptions) {
	friction := opts.Friction
	if friction == 0 {
		friction = 0.8
	}
	mask := uint(cp.ALL_CATEGORIES)
	if opts.Mask != 0 {
		mask = uint(opts.Mask)
	}
	shape.SetFriction(friction)
	shape.SetSensor(opts.Sensor)
	shape.SetCollisionType(cp.CollisionType(o.Category))
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(o.Category), Mask: mask})
	w.space.AddShape(shape)

	o.shape = shape
	w.contacts[shape] = event.Contact{Object: o.ID, Category: o.Category}
	w.shapes[o.ID] = append(w.shapes[o.ID], shape)
}

// Remove drops every shape of an object, and its body if the object owns
// one. It must not be called while the space is stepping.
func (w *World) Remove(id event.ObjectID) {
	for _, shape := range w.shapes[id] {
		w.space.RemoveShape(shape)
		delete(w.contacts, shape)
	}
	delete(w.shapes, id)

	if body, ok := w.owned[id]; ok {
		w.space.RemoveBody(body)
		delete(w.owned, id)
	}
}

// Step advances the simulation.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(dt)
}

// ReportContacts enqueues a Collision each time a shape of category a starts
// touching a shape of category b. A is always the category a side.
func (w *World) ReportContacts(a, b uint32) {
	handler := w.space.NewCollisionHandler(cp.CollisionType(a), cp.CollisionType(b))
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ca, okA := world.contacts[shapeA]
		cb, okB := world.contacts[shapeB]
		if !okA || !okB {
			return true
		}
		if world.debug {
			log.Printf("physics: contact %d(%d) -> %d(%d)", ca.Object, ca.Category, cb.Object, cb.Category)
		}
		world.queue.Enqueue(event.Collision{A: ca, B: cb})
		return true
	}
}

// DampAngular makes body lose angular velocity at the given rate per second.
func DampAngular(body *cp.Body, rate float64) {
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, damping, dt)
		b.SetAngularVelocity(b.AngularVelocity() * math.Exp(-rate*dt))
	})
}
