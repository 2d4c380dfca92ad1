package input

import (
	"fmt"
	"sort"

	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input/key"
)

// Binding names one physical key or button.
type Binding struct {
	Device event.Device
	Code   key.Code
}

// KeyBinding is a keyboard binding for c.
func KeyBinding(c key.Code) Binding { return Binding{Device: event.Keyboard, Code: c} }

// PadBinding is a gamepad binding for c.
func PadBinding(c key.Code) Binding { return Binding{Device: event.Gamepad, Code: c} }

func (b Binding) String() string {
	if b.Device == event.Gamepad {
		return "pad:" + key.PadName(b.Code)
	}
	return key.KeyName(b.Code)
}

// KeyMap maps bindings to actions. Several bindings may drive the same action;
// a binding drives at most one.
type KeyMap struct {
	bindings map[Binding]Action
}

// NewKeyMap creates an empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{bindings: make(map[Binding]Action)}
}

// DefaultKeyMap returns the stock layout.
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()

	keys := []struct {
		action Action
		codes  []key.Code
	}{
		{Up, []key.Code{key.Letter('w'), key.Up}},
		{Left, []key.Code{key.Letter('a'), key.Left}},
		{Down, []key.Code{key.Letter('s'), key.Down}},
		{Right, []key.Code{key.Letter('d'), key.Right}},
		{Jump, []key.Code{key.Space}},
		{Teleport, []key.Code{key.Letter('z')}},
		{Reset, []key.Code{key.Letter('r')}},
		{LookUp, []key.Code{key.Letter('i')}},
		{LookDown, []key.Code{key.Letter('k')}},
		{LookLeft, []key.Code{key.Letter('j')}},
		{LookRight, []key.Code{key.Letter('l')}},
		{ZoomIn, []key.Code{key.Letter('u')}},
		{ZoomOut, []key.Code{key.Letter('m')}},
		{Menu, []key.Code{key.Escape}},
	}
	for _, k := range keys {
		for _, c := range k.codes {
			km.Bind(KeyBinding(c), k.action)
		}
	}

	pad := []struct {
		action Action
		code   key.Code
	}{
		{Up, key.PadUp},
		{Down, key.PadDown},
		{Left, key.PadLeft},
		{Right, key.PadRight},
		{Jump, key.PadA},
		{Teleport, key.PadX},
		{Reset, key.PadBack},
		{ZoomIn, key.PadRB},
		{ZoomOut, key.PadLB},
		{Menu, key.PadStart},
	}
	for _, p := range pad {
		km.Bind(PadBinding(p.code), p.action)
	}

	return km
}

// Bind maps b to a, replacing any previous action for b.
func (km *KeyMap) Bind(b Binding, a Action) {
	if km == nil || !a.Valid() {
		return
	}
	if km.bindings == nil {
		km.bindings = make(map[Binding]Action)
	}
	km.bindings[b] = a
}

// Unbind removes b.
func (km *KeyMap) Unbind(b Binding) {
	if km == nil {
		return
	}
	delete(km.bindings, b)
}

// Lookup returns the action bound to b.
func (km *KeyMap) Lookup(b Binding) (Action, bool) {
	if km == nil {
		return 0, false
	}
	a, ok := km.bindings[b]
	return a, ok
}

// BindingsFor lists every binding that drives a, keyboard first.
func (km *KeyMap) BindingsFor(a Action) []Binding {
	if km == nil {
		return nil
	}
	var out []Binding
	for b, bound := range km.bindings {
		if bound == a {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Len returns the number of bindings.
func (km *KeyMap) Len() int {
	if km == nil {
		return 0
	}
	return len(km.bindings)
}

// Clone returns an independent copy.
func (km *KeyMap) Clone() *KeyMap {
	out := NewKeyMap()
	if km == nil {
		return out
	}
	for b, a := range km.bindings {
		out.bindings[b] = a
	}
	return out
}

// Describe renders the bindings of a for display, e.g. "W/Up".
func (km *KeyMap) Describe(a Action) string {
	bindings := km.BindingsFor(a)
	if len(bindings) == 0 {
		return "-"
	}
	s := ""
	for i, b := range bindings {
		if i > 0 {
			s += "/"
		}
		s += b.String()
	}
	return s
}

// ParseBinding parses "W", "Space" or "pad:A".
func ParseBinding(s string) (Binding, error) {
	if len(s) > 4 && s[:4] == "pad:" {
		c, err := key.ParsePad(s[4:])
		if err != nil {
			return Binding{}, fmt.Errorf("input: parse binding %q: %w", s, err)
		}
		return PadBinding(c), nil
	}
	c, err := key.ParseKey(s)
	if err != nil {
		return Binding{}, fmt.Errorf("input: parse binding %q: %w", s, err)
	}
	return KeyBinding(c), nil
}
