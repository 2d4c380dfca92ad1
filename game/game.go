// Package game routes the events of one frame between the window, the scenes
// and the audio cues. It knows nothing about the window toolkit: the shell in
// package main polls devices into the queue and calls Frame.
package game

import (
	"log"
	"strings"

	"github.com/milk9111/gameframe/audio"
	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
	"github.com/milk9111/gameframe/scene"
)

const maxTyped = 32

// Game is the dispatch sink for one queue. It owns the scenes, the controller
// for game-level actions and the optional audio cues, and runs frames in the
// order StartFrame, drain, update.
type Game struct {
	queue  *event.Queue
	cfg    *config.Config
	system *input.Controller
	cues   *audio.Cues

	scenes map[string]scene.Scene
	active scene.Scene

	debug    bool
	menuOpen bool
	typed    []rune
	width    int
	height   int
	frames   int
}

// New creates a game running cfg.StartScene. A nil cfg uses the default.
func New(cfg *config.Config) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	km, err := cfg.KeyMap()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	g := &Game{
		queue:  event.NewQueue(),
		cfg:    cfg,
		system: input.NewController(km),
		scenes: make(map[string]scene.Scene),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	g.system.SetReleasePolicy(policy)

	s, err := g.scene(cfg.StartScene)
	if err != nil {
		return nil, err
	}
	g.activate(s)
	return g, nil
}

// Queue returns the queue producers enqueue into.
func (g *Game) Queue() *event.Queue { return g.queue }

// Enqueue forwards to the queue.
func (g *Game) Enqueue(ev event.Event) { g.queue.Enqueue(ev) }

// SetCues attaches the audio cue player. Nil disables cues.
func (g *Game) SetCues(c *audio.Cues) { g.cues = c }

// SetDebug turns on contact logging in every scene's physics world.
func (g *Game) SetDebug(debug bool) {
	g.debug = debug
	for _, s := range g.scenes {
		setWorldDebug(s, debug)
	}
}

func setWorldDebug(s scene.Scene, debug bool) {
	if w, ok := s.(interface{ World() *scene.World }); ok {
		w.World().SetDebug(debug)
	}
}

// Config returns the active configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Active returns the running scene.
func (g *Game) Active() scene.Scene { return g.active }

// System returns the controller that owns game-level actions such as Menu.
func (g *Game) System() *input.Controller { return g.system }

// MenuOpen reports whether the scene picker is showing. The active scene is
// paused while it is.
func (g *Game) MenuOpen() bool { return g.menuOpen }

// CloseMenu hides the scene picker.
func (g *Game) CloseMenu() { g.menuOpen = false }

// Typed returns the most recent text input.
func (g *Game) Typed() string { return string(g.typed) }

// Frames returns the number of frames run.
func (g *Game) Frames() int { return g.frames }

// Frame runs one frame: snapshot every live controller, dispatch what was
// queued since the last frame, then advance the active scene by dt.
func (g *Game) Frame(dt float64) {
	g.frames++

	g.system.StartFrame()
	g.active.Controller().StartFrame()

	g.queue.DrainAndDispatch(g)

	if g.system.IsActionPressed(input.Menu) {
		g.menuOpen = !g.menuOpen
	}
	if g.menuOpen {
		return
	}
	g.active.Update(dt)
}

// OnEvent is the dispatch sink for the queue.
func (g *Game) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Input:
		g.system.OnEvent(e)
		g.active.Controller().OnEvent(e)
	case event.Char:
		g.typed = append(g.typed, e.Rune)
		if len(g.typed) > maxTyped {
			g.typed = g.typed[len(g.typed)-maxTyped:]
		}
	case event.WindowResize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		g.width, g.height = e.Width, e.Height
		g.active.Camera().SetAspectRatio(e.AspectRatio())
	case event.Collision:
		// both the scene and the cues react to a contact
		g.active.OnEvent(e)
		g.playCue(e)
	case event.RemoveObject:
		g.active.OnEvent(e)
		g.playCue(e)
	case event.SceneChange:
		g.changeScene(e.Name)
	case event.ConfigReload:
		g.reload(e.Path)
	}
}

func (g *Game) playCue(ev event.Event) {
	if g.cues != nil {
		g.cues.OnEvent(ev)
	}
}

func (g *Game) scene(name string) (scene.Scene, error) {
	if s, ok := g.scenes[name]; ok {
		return s, nil
	}
	s, err := scene.New(name, g.queue, g.cfg)
	if err != nil {
		return nil, err
	}
	setWorldDebug(s, g.debug)
	g.scenes[name] = s
	return s, nil
}

func (g *Game) activate(s scene.Scene) {
	g.active = s
	if g.width > 0 && g.height > 0 {
		s.Camera().SetAspectRatio(float64(g.width) / float64(g.height))
	}
}

func (g *Game) changeScene(name string) {
	g.menuOpen = false
	if g.active != nil && g.active.Name() == name {
		return
	}
	s, err := g.scene(name)
	if err != nil {
		log.Printf("game: change scene: %v", err)
		return
	}
	// keys held in the old scene must not leak into it when it comes back
	g.active.Controller().Reset()
	g.activate(s)
	g.playCue(event.SceneChange{Name: name})
	log.Printf("game: scene %s", name)
}

func (g *Game) reload(path string) {
	if path == "" {
		path = g.cfg.Path
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("game: reload: %v", err)
		return
	}
	km, err := cfg.KeyMap()
	if err != nil {
		log.Printf("game: reload: %v", err)
		return
	}
	policy, err := cfg.Policy()
	if err != nil {
		log.Printf("game: reload: %v", err)
		return
	}

	controllers := []*input.Controller{g.system}
	for _, s := range g.scenes {
		controllers = append(controllers, s.Controller())
	}
	for _, c := range controllers {
		c.SetKeyMap(km.Clone())
		c.SetReleasePolicy(policy)
	}
	if g.cues != nil {
		g.cues.SetVolume(cfg.Audio.Volume)
		g.cues.SetMuted(!cfg.Audio.Enabled)
	}
	g.cfg = cfg
	g.playCue(event.ConfigReload{Path: path})
	log.Printf("game: reloaded %s (policy %s)", path, policy)
}

// Bindings renders the bindings of every action for the overlay.
func (g *Game) Bindings() string {
	km := g.active.Controller().KeyMap()
	var b strings.Builder
	for i, a := range input.AllActions() {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(a.String())
		b.WriteString("=")
		b.WriteString(km.Describe(a))
	}
	return b.String()
}

// Shutdown drops every undispatched event and returns how many there were.
func (g *Game) Shutdown() int {
	n := g.queue.Clear()
	if n > 0 {
		log.Printf("game: dropped %d pending events", n)
	}
	return n
}
