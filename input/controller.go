package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/gameframe/event"
)

// ErrUnknownPolicy is returned when a release policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("unknown release policy")

// ReleasePolicy decides what releasing one of several bindings of an action
// does to the action.
type ReleasePolicy uint8

const (
	// ReleaseClears clears the action on the release of any binding, even if
	// another binding of the same action is still down.
	ReleaseClears ReleasePolicy = iota
	// ReleaseWhenAllUp keeps the action held until every binding that pressed
	// it has been released.
	ReleaseWhenAllUp
)

func (p ReleasePolicy) String() string {
	switch p {
	case ReleaseClears:
		return "clears"
	case ReleaseWhenAllUp:
		return "when_all_up"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParseReleasePolicy parses "clears" or "when_all_up". An empty name selects
// ReleaseClears.
func ParseReleasePolicy(name string) (ReleasePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "clears":
		return ReleaseClears, nil
	case "when_all_up":
		return ReleaseWhenAllUp, nil
	}
	return 0, fmt.Errorf("input: parse release policy %q: %w", name, ErrUnknownPolicy)
}

// Controller turns raw input events into per-frame action state.
//
// Call StartFrame once at the top of every frame, before that frame's events
// are dispatched to OnEvent. Held, Pressed and Released then answer against
// the state at the end of the previous frame. Misordered calls are not
// detected; the queries simply compare whatever masks exist.
type Controller struct {
	keys     *KeyMap
	policy   ReleasePolicy
	current  ActionSet
	previous ActionSet

	// bindings currently down, used by ReleaseWhenAllUp
	down map[Binding]Action
}

// NewController creates a controller driven by km. A nil km uses
// DefaultKeyMap.
func NewController(km *KeyMap) *Controller {
	if km == nil {
		km = DefaultKeyMap()
	}
	return &Controller{
		keys: km,
		down: make(map[Binding]Action),
	}
}

// KeyMap returns the active key map.
func (c *Controller) KeyMap() *KeyMap {
	return c.keys
}

// SetKeyMap replaces the key map. Held state is kept; bindings that are down
// keep the action they pressed until released.
func (c *Controller) SetKeyMap(km *KeyMap) {
	if km == nil {
		km = DefaultKeyMap()
	}
	c.keys = km
}

// Policy returns the active release policy.
func (c *Controller) Policy() ReleasePolicy {
	return c.policy
}

// SetReleasePolicy changes how releases of shared bindings are handled.
func (c *Controller) SetReleasePolicy(p ReleasePolicy) {
	c.policy = p
}

// OnEvent applies an Input event. Every other event, and any input whose
// binding is not mapped, is ignored.
func (c *Controller) OnEvent(ev event.Event) {
	in, ok := ev.(event.Input)
	if !ok {
		return
	}
	b := Binding{Device: in.Device, Code: in.Code}

	switch in.State {
	case event.Pressed:
		a, ok := c.keys.Lookup(b)
		if !ok {
			return
		}
		c.down[b] = a
		c.current = c.current.With(a)
	case event.Released:
		a, ok := c.down[b]
		if ok {
			delete(c.down, b)
		} else if a, ok = c.keys.Lookup(b); !ok {
			return
		}
		if c.policy == ReleaseWhenAllUp && c.stillDown(a) {
			return
		}
		c.current = c.current.Without(a)
	}
}

func (c *Controller) stillDown(a Action) bool {
	for _, held := range c.down {
		if held == a {
			return true
		}
	}
	return false
}

// StartFrame snapshots the current state as the previous frame's.
func (c *Controller) StartFrame() {
	c.previous = c.current
}

// IsActionHeld reports whether a is active.
func (c *Controller) IsActionHeld(a Action) bool {
	return c.current.Has(a)
}

// IsActionPressed reports whether a became active this frame.
func (c *Controller) IsActionPressed(a Action) bool {
	return c.current.Has(a) && !c.previous.Has(a)
}

// IsActionReleased reports whether a became inactive this frame.
func (c *Controller) IsActionReleased(a Action) bool {
	return !c.current.Has(a) && c.previous.Has(a)
}

// Held returns the set of active actions.
func (c *Controller) Held() ActionSet {
	return c.current
}

// Reset drops all state, as if every key had been released before the
// previous frame.
func (c *Controller) Reset() {
	c.current = 0
	c.previous = 0
	clear(c.down)
}
