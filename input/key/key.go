// Package key defines raw key codes shared by input producers and consumers.
//
// Keyboard codes follow the Win32 virtual-key layout: letters and digits are
// their upper-case ASCII values and the named keys use the VK_* numbers.
// Gamepad codes are button indices in the W3C standard gamepad layout.
package key

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when a key name cannot be parsed.
var ErrUnknownKey = errors.New("unknown key")

// Code is a raw device key or button code.
type Code uint32

const (
	Tab    Code = 0x09
	Enter  Code = 0x0D
	Shift  Code = 0x10
	Ctrl   Code = 0x11
	Escape Code = 0x1B
	Space  Code = 0x20
	Left   Code = 0x25
	Up     Code = 0x26
	Right  Code = 0x27
	Down   Code = 0x28
)

// Letter returns the code for an ASCII letter, either case.
func Letter(r rune) Code {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return Code(r)
}

// Standard gamepad buttons.
const (
	PadA Code = iota
	PadB
	PadX
	PadY
	PadLB
	PadRB
	PadLT
	PadRT
	PadBack
	PadStart
	PadLeftStick
	PadRightStick
	PadUp
	PadDown
	PadLeft
	PadRight
	PadHome

	PadButtonCount = PadHome + 1
)

var namedKeys = map[Code]string{
	Tab:    "Tab",
	Enter:  "Enter",
	Shift:  "Shift",
	Ctrl:   "Ctrl",
	Escape: "Escape",
	Space:  "Space",
	Left:   "Left",
	Up:     "Up",
	Right:  "Right",
	Down:   "Down",
}

var padNames = [...]string{
	PadA:          "A",
	PadB:          "B",
	PadX:          "X",
	PadY:          "Y",
	PadLB:         "LB",
	PadRB:         "RB",
	PadLT:         "LT",
	PadRT:         "RT",
	PadBack:       "Back",
	PadStart:      "Start",
	PadLeftStick:  "LeftStick",
	PadRightStick: "RightStick",
	PadUp:         "Up",
	PadDown:       "Down",
	PadLeft:       "Left",
	PadRight:      "Right",
	PadHome:       "Home",
}

// KeyName returns the keyboard name of c ("W", "Space", "Up").
func KeyName(c Code) string {
	if name, ok := namedKeys[c]; ok {
		return name
	}
	if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return string(rune(c))
	}
	return fmt.Sprintf("0x%02X", uint32(c))
}

// PadName returns the gamepad button name of c.
func PadName(c Code) string {
	if c < PadButtonCount {
		return padNames[c]
	}
	return fmt.Sprintf("Button%d", uint32(c))
}

// ParseKey parses a keyboard key name. Matching is case-insensitive.
func ParseKey(name string) (Code, error) {
	s := strings.TrimSpace(name)
	if len(s) == 1 {
		r := rune(s[0])
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return Letter(r), nil
		case r >= '0' && r <= '9':
			return Code(r), nil
		}
	}
	for c, n := range namedKeys {
		if strings.EqualFold(n, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("key: parse %q: %w", name, ErrUnknownKey)
}

// ParsePad parses a gamepad button name. Matching is case-insensitive.
func ParsePad(name string) (Code, error) {
	s := strings.TrimSpace(name)
	for i, n := range padNames {
		if strings.EqualFold(n, s) {
			return Code(i), nil
		}
	}
	return 0, fmt.Errorf("key: parse pad %q: %w", name, ErrUnknownKey)
}
