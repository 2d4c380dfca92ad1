package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/game"
	"github.com/milk9111/gameframe/scene"
)

// Shell adapts the game to ebiten: it polls devices into the queue, runs one
// frame per tick and draws the active scene.
type Shell struct {
	game  *game.Game
	menu  *ebitenui.UI
	debug bool

	width, height float64
	keys          []ebiten.Key
	pads          []ebiten.GamepadID
	chars         []rune
}

func NewShell(g *game.Game, debug bool) *Shell {
	g.SetDebug(debug)
	s := &Shell{
		game:  g,
		debug: debug,
	}
	s.menu = NewScenePicker(g.Queue(), scene.Names(), g.Config().Window.Width, g.Config().Window.Height)
	return s
}

func (s *Shell) Update() error {
	if ebiten.IsWindowBeingClosed() {
		s.game.Shutdown()
		return ebiten.Termination
	}

	s.poll()
	s.game.Frame(1.0 / float64(ebiten.TPS()))

	if s.game.MenuOpen() {
		s.menu.Update()
	}
	return nil
}

func (s *Shell) Draw(screen *ebiten.Image) {
	active := s.game.Active()
	drawScene(screen, active)
	if s.debug {
		if w, ok := active.(interface{ World() *scene.World }); ok {
			drawPhysicsDebug(screen, w.World(), active.Camera())
		}
	}
	drawOverlay(screen, s.game)

	if s.game.MenuOpen() {
		s.menu.Draw(screen)
	}
}

func (s *Shell) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if outsideWidth != s.width || outsideHeight != s.height {
		s.width, s.height = outsideWidth, outsideHeight
		s.game.Enqueue(event.WindowResize{Width: int(outsideWidth), Height: int(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

func (s *Shell) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
