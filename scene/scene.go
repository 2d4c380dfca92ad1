// Package scene holds the playable scenes. A scene owns its objects, its
// physics world, its camera and the virtual controller the game feeds with
// input events.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
)

// ErrUnknownScene is returned by New for a name with no registered scene.
var ErrUnknownScene = errors.New("unknown scene")

// Scene is one playable context.
type Scene interface {
	Name() string
	Controller() *input.Controller
	Camera() *Camera
	Objects() []*Object
	// Status is a one-line message for the overlay, empty for none.
	Status() string
	Update(dt float64)
	OnEvent(ev event.Event)
}

// Factory builds a scene that reports its physics events to q.
type Factory func(q event.Enqueuer, cfg *config.Config) (Scene, error)

var registry = map[string]Factory{
	"golf":    func(q event.Enqueuer, cfg *config.Config) (Scene, error) { return NewGolf(q, cfg) },
	"lander":  func(q event.Enqueuer, cfg *config.Config) (Scene, error) { return NewLander(q, cfg) },
	"pinball": func(q event.Enqueuer, cfg *config.Config) (Scene, error) { return NewPinball(q, cfg) },
	"sandbox": func(q event.Enqueuer, cfg *config.Config) (Scene, error) { return NewSandbox(q, cfg) },
}

// Names lists the registered scenes in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named scene.
func New(name string, q event.Enqueuer, cfg *config.Config) (Scene, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("scene: new %q: %w", name, ErrUnknownScene)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	s, err := f(q, cfg)
	if err != nil {
		return nil, fmt.Errorf("scene: new %q: %w", name, err)
	}
	return s, nil
}

// base carries the state every scene shares.
type base struct {
	name       string
	queue      event.Enqueuer
	controller *input.Controller
	camera     *Camera
	world      *World
	objects    []*Object
	nextID     event.ObjectID
	status     string
}

func newBase(name string, q event.Enqueuer, cfg *config.Config, gravity float64) (base, error) {
	km, err := cfg.KeyMap()
	if err != nil {
		return base{}, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return base{}, err
	}
	ctrl := input.NewController(km)
	ctrl.SetReleasePolicy(policy)

	return base{
		name:       name,
		queue:      q,
		controller: ctrl,
		camera:     NewCamera(0, 0),
		world:      NewWorld(q, gravity),
	}, nil
}

func (b *base) Name() string                  { return b.name }
func (b *base) Controller() *input.Controller { return b.controller }
func (b *base) Camera() *Camera               { return b.camera }
func (b *base) Objects() []*Object            { return b.objects }
func (b *base) Status() string                { return b.status }

// World returns the physics world.
func (b *base) World() *World { return b.world }

func (b *base) add(o *Object) *Object {
	b.nextID++
	o.ID = b.nextID
	b.objects = append(b.objects, o)
	return o
}

func (b *base) find(id event.ObjectID) *Object {
	for _, o := range b.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// remove drops the object and its physics shapes. It reports whether the
// object existed.
func (b *base) remove(id event.ObjectID) bool {
	for i, o := range b.objects {
		if o.ID != id {
			continue
		}
		b.world.Remove(id)
		b.objects = append(b.objects[:i], b.objects[i+1:]...)
		return true
	}
	return false
}

func (b *base) syncObjects() {
	for _, o := range b.objects {
		o.Sync()
	}
}

// look pans and zooms the camera from the Look and Zoom actions.
func (b *base) look(dt float64) {
	const panSpeed = 10.0
	const zoomRate = 1.5

	c := b.controller
	var dx, dy float64
	if c.IsActionHeld(input.LookLeft) {
		dx -= panSpeed * dt
	}
	if c.IsActionHeld(input.LookRight) {
		dx += panSpeed * dt
	}
	if c.IsActionHeld(input.LookDown) {
		dy -= panSpeed * dt
	}
	if c.IsActionHeld(input.LookUp) {
		dy += panSpeed * dt
	}
	b.camera.Pan(dx, dy)

	if c.IsActionHeld(input.ZoomIn) {
		b.camera.SetZoom(b.camera.Zoom * (1 + zoomRate*dt))
	}
	if c.IsActionHeld(input.ZoomOut) {
		b.camera.SetZoom(b.camera.Zoom / (1 + zoomRate*dt))
	}
}
