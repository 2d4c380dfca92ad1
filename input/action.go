package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned when an action name cannot be parsed.
var ErrUnknownAction = errors.New("unknown action")

// Action is a logical control, independent of the physical key driving it.
type Action uint8

const (
	Teleport Action = iota
	Up
	Down
	Left
	Right
	Jump
	Reset
	LookUp
	LookDown
	LookLeft
	LookRight
	ZoomIn
	ZoomOut
	Menu

	numActions
)

// ActionSet must hold one bit per action.
const _ = uint(32 - numActions)

var actionNames = [numActions]string{
	Teleport:  "teleport",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	Jump:      "jump",
	Reset:     "reset",
	LookUp:    "look_up",
	LookDown:  "look_down",
	LookLeft:  "look_left",
	LookRight: "look_right",
	ZoomIn:    "zoom_in",
	ZoomOut:   "zoom_out",
	Menu:      "menu",
}

// AllActions returns every action in bit order.
func AllActions() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// Valid reports whether a is a member of the enumeration.
func (a Action) Valid() bool {
	return a < numActions
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionNames[a]
}

// ParseAction parses the snake_case name of an action.
func ParseAction(name string) (Action, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("input: parse action %q: %w", name, ErrUnknownAction)
}

// ActionSet is a set of actions, one bit per action.
type ActionSet uint32

// SetOf builds a set from actions.
func SetOf(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

func (a Action) bit() ActionSet {
	if !a.Valid() {
		return 0
	}
	return 1 << a
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&a.bit() != 0
}

// With returns the set plus a.
func (s ActionSet) With(a Action) ActionSet {
	return s | a.bit()
}

// Without returns the set minus a.
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ a.bit()
}

// Actions lists the members in bit order.
func (s ActionSet) Actions() []Action {
	var out []Action
	for a := Action(0); a < numActions; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	actions := s.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return "{" + strings.Join(names, " ") + "}"
}
