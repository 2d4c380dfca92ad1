package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input/key"
)

var keyCodes = map[ebiten.Key]key.Code{
	ebiten.KeySpace:        key.Space,
	ebiten.KeyEscape:       key.Escape,
	ebiten.KeyEnter:        key.Enter,
	ebiten.KeyTab:          key.Tab,
	ebiten.KeyShiftLeft:    key.Shift,
	ebiten.KeyShiftRight:   key.Shift,
	ebiten.KeyControlLeft:  key.Ctrl,
	ebiten.KeyControlRight: key.Ctrl,
	ebiten.KeyArrowUp:      key.Up,
	ebiten.KeyArrowDown:    key.Down,
	ebiten.KeyArrowLeft:    key.Left,
	ebiten.KeyArrowRight:   key.Right,
}

func init() {
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, k := range letters {
		keyCodes[k] = key.Letter(rune('a' + i))
	}
	digits := []ebiten.Key{
		ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	}
	for i, k := range digits {
		keyCodes[k] = key.Code('0' + i)
	}
}

var padCodes = map[ebiten.StandardGamepadButton]key.Code{
	ebiten.StandardGamepadButtonRightBottom:      key.PadA,
	ebiten.StandardGamepadButtonRightRight:       key.PadB,
	ebiten.StandardGamepadButtonRightLeft:        key.PadX,
	ebiten.StandardGamepadButtonRightTop:         key.PadY,
	ebiten.StandardGamepadButtonFrontTopLeft:     key.PadLB,
	ebiten.StandardGamepadButtonFrontTopRight:    key.PadRB,
	ebiten.StandardGamepadButtonFrontBottomLeft:  key.PadLT,
	ebiten.StandardGamepadButtonFrontBottomRight: key.PadRT,
	ebiten.StandardGamepadButtonCenterLeft:       key.PadBack,
	ebiten.StandardGamepadButtonCenterRight:      key.PadStart,
	ebiten.StandardGamepadButtonLeftStick:        key.PadLeftStick,
	ebiten.StandardGamepadButtonRightStick:       key.PadRightStick,
	ebiten.StandardGamepadButtonLeftTop:          key.PadUp,
	ebiten.StandardGamepadButtonLeftBottom:       key.PadDown,
	ebiten.StandardGamepadButtonLeftLeft:         key.PadLeft,
	ebiten.StandardGamepadButtonLeftRight:        key.PadRight,
	ebiten.StandardGamepadButtonCenterCenter:     key.PadHome,
}

// poll turns this tick's device transitions into queued events. Releases are
// queued before presses so a key tapped and re-pressed between ticks ends up
// held.
func (s *Shell) poll() {
	q := s.game.Queue()

	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		if c, ok := keyCodes[k]; ok {
			q.Enqueue(event.Release(c))
		}
	}
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		if c, ok := keyCodes[k]; ok {
			q.Enqueue(event.Press(c))
		}
	}

	s.pads = ebiten.AppendGamepadIDs(s.pads[:0])
	for _, id := range s.pads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for b, c := range padCodes {
			if inpututil.IsStandardGamepadButtonJustReleased(id, b) {
				q.Enqueue(event.Input{Device: event.Gamepad, State: event.Released, Code: c})
			}
			if inpututil.IsStandardGamepadButtonJustPressed(id, b) {
				q.Enqueue(event.Input{Device: event.Gamepad, State: event.Pressed, Code: c})
			}
		}
	}

	s.chars = ebiten.AppendInputChars(s.chars[:0])
	for _, r := range s.chars {
		q.Enqueue(event.Char{Rune: r})
	}
}
