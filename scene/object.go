package scene

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/gameframe/event"
)

// Object is a drawable box in world units, y up. Physics-backed objects are
// attached to a body; Sync copies the body pose back into the object.
type Object struct {
	ID       event.ObjectID
	Name     string
	X, Y     float64
	W, H     float64
	Angle    float64
	Tint     color.Color
	Category uint32

	body   *cp.Body
	shape  *cp.Shape
	offset cp.Vector
}

// Body returns the physics body, or nil for a purely visual object.
func (o *Object) Body() *cp.Body {
	return o.body
}

// Attach puts o on body at a local offset. The object follows the body on
// Sync but has no collision shape of its own.
func (o *Object) Attach(body *cp.Body, offsetX, offsetY float64) {
	o.body = body
	o.offset = cp.Vector{X: offsetX, Y: offsetY}
	o.Sync()
}

// Sync copies the body pose into the object.
func (o *Object) Sync() {
	if o.body == nil {
		return
	}
	p := o.body.LocalToWorld(o.offset)
	o.X, o.Y = p.X, p.Y
	o.Angle = o.body.Angle()
}

// Corners returns the four corners of the box in world space, counter
// clockwise from bottom-left.
func (o *Object) Corners() [4]cp.Vector {
	hw, hh := o.W/2, o.H/2
	rot := cp.ForAngle(o.Angle)
	center := cp.Vector{X: o.X, Y: o.Y}
	local := [4]cp.Vector{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	var out [4]cp.Vector
	for i, v := range local {
		out[i] = center.Add(rot.Rotate(v))
	}
	return out
}
