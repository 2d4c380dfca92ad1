// Package event carries discrete occurrences from producers (window, input,
// physics callbacks, file watchers) to the single consumer that dispatches them
// once per frame.
package event

import (
	"fmt"

	"github.com/milk9111/gameframe/input/key"
)

// Type is the stable routing tag of an event variant.
type Type string

const (
	TypeInput        Type = "InputEvent"
	TypeChar         Type = "CharEvent"
	TypeWindowResize Type = "WindowResizeEvent"
	TypeCollision    Type = "CollisionEvent"
	TypeRemoveObject Type = "RemoveFromGameEvent"
	TypeSceneChange  Type = "SceneChangeEvent"
	TypeConfigReload Type = "ConfigReloadEvent"
)

// Event is one occurrence. The set of variants is closed: every
// implementation lives in this package, and consumers switch on the concrete
// type with a default arm for anything they do not handle.
type Event interface {
	Type() Type
	event()
}

// Device identifies the physical source of an Input event.
type Device uint8

const (
	Keyboard Device = iota
	Gamepad
)

func (d Device) String() string {
	switch d {
	case Keyboard:
		return "keyboard"
	case Gamepad:
		return "gamepad"
	}
	return fmt.Sprintf("device(%d)", uint8(d))
}

// State is the transition reported by an Input event.
type State uint8

const (
	Pressed State = iota
	Released
)

func (s State) String() string {
	if s == Released {
		return "released"
	}
	return "pressed"
}

// ObjectID identifies a game object across event payloads.
type ObjectID uint64

// Input is a raw key or button transition.
type Input struct {
	Device Device
	State  State
	Code   key.Code
}

// Press is shorthand for a keyboard press of c.
func Press(c key.Code) Input { return Input{Device: Keyboard, State: Pressed, Code: c} }

// Release is shorthand for a keyboard release of c.
func Release(c key.Code) Input { return Input{Device: Keyboard, State: Released, Code: c} }

func (Input) Type() Type { return TypeInput }
func (Input) event()     {}

func (e Input) String() string {
	name := key.KeyName(e.Code)
	if e.Device == Gamepad {
		name = key.PadName(e.Code)
	}
	return fmt.Sprintf("%s %s %s", e.Device, name, e.State)
}

// Char is a text character produced by the platform's text input.
type Char struct {
	Rune rune
}

func (Char) Type() Type { return TypeChar }
func (Char) event()     {}

// WindowResize reports the new client size of the window.
type WindowResize struct {
	Width, Height int
}

func (WindowResize) Type() Type { return TypeWindowResize }
func (WindowResize) event()     {}

// AspectRatio returns Width/Height, or 0 for a degenerate size.
func (e WindowResize) AspectRatio() float64 {
	if e.Width <= 0 || e.Height <= 0 {
		return 0
	}
	return float64(e.Width) / float64(e.Height)
}

// Contact is one side of a collision.
type Contact struct {
	Object   ObjectID
	Category uint32
}

// Collision reports that two shapes started touching. A is the side whose
// category the reporting handler was registered with first.
type Collision struct {
	A, B Contact
}

func (Collision) Type() Type { return TypeCollision }
func (Collision) event()     {}

// Involves reports whether either side has the given category, and returns
// that side first.
func (e Collision) Involves(category uint32) (Contact, Contact, bool) {
	switch {
	case e.A.Category == category:
		return e.A, e.B, true
	case e.B.Category == category:
		return e.B, e.A, true
	}
	return Contact{}, Contact{}, false
}

// RemoveObject asks the owning scene to drop an object.
type RemoveObject struct {
	Object ObjectID
}

func (RemoveObject) Type() Type { return TypeRemoveObject }
func (RemoveObject) event()     {}

// SceneChange asks the game to activate the named scene.
type SceneChange struct {
	Name string
}

func (SceneChange) Type() Type { return TypeSceneChange }
func (SceneChange) event()     {}

// ConfigReload reports that a watched configuration file changed.
type ConfigReload struct {
	Path string
}

func (ConfigReload) Type() Type { return TypeConfigReload }
func (ConfigReload) event()     {}
