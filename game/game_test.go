package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/gameframe/audio"
	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
	"github.com/milk9111/gameframe/input/key"
	"github.com/milk9111/gameframe/scene"
)

const frameDT = 1.0 / 60

func newGame(t *testing.T, start string) *Game {
	t.Helper()
	cfg := config.Default()
	if start != "" {
		cfg.StartScene = start
	}
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewUnknownStartScene(t *testing.T) {
	cfg := config.Default()
	cfg.StartScene = "moonbase"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected an error for an unknown start scene")
	}
}

func TestInputReachesSystemAndScene(t *testing.T) {
	g := newGame(t, "")
	g.Enqueue(event.Press(key.Space))
	g.Frame(frameDT)

	if !g.Active().Controller().IsActionPressed(input.Jump) {
		t.Fatalf("scene controller should see the Jump press")
	}
	if !g.System().IsActionHeld(input.Jump) {
		t.Fatalf("system controller should see the Jump press")
	}

	g.Frame(frameDT)
	if g.Active().Controller().IsActionPressed(input.Jump) {
		t.Fatalf("Jump should only be pressed on the first frame")
	}
	if !g.Active().Controller().IsActionHeld(input.Jump) {
		t.Fatalf("Jump should still be held")
	}
}

func TestMenuPausesScene(t *testing.T) {
	g := newGame(t, "lander")
	lander := g.Active().(*scene.Lander)

	g.Enqueue(event.Press(key.Escape))
	g.Frame(frameDT)
	if !g.MenuOpen() {
		t.Fatalf("Escape should open the menu")
	}

	y := lander.Ship().Y
	for i := 0; i < 30; i++ {
		g.Frame(frameDT)
	}
	if lander.Ship().Y != y {
		t.Fatalf("scene advanced while the menu was open: %f -> %f", y, lander.Ship().Y)
	}

	g.Enqueue(event.Release(key.Escape))
	g.Frame(frameDT)
	if !g.MenuOpen() || lander.Ship().Y != y {
		t.Fatalf("releasing Escape should leave the menu open and the scene paused")
	}

	g.Enqueue(event.Press(key.Escape))
	g.Frame(frameDT)
	if g.MenuOpen() {
		t.Fatalf("a second Escape should close the menu")
	}
	if lander.Ship().Y >= y {
		t.Fatalf("ship should fall once the menu closes")
	}
}

func TestTypedCharsAreBounded(t *testing.T) {
	g := newGame(t, "")
	for i := 0; i < maxTyped+8; i++ {
		g.Enqueue(event.Char{Rune: rune('a' + i%26)})
	}
	g.Frame(frameDT)

	typed := []rune(g.Typed())
	if len(typed) != maxTyped {
		t.Fatalf("typed buffer holds %d runes, want %d", len(typed), maxTyped)
	}
	last := rune('a' + (maxTyped+7)%26)
	if typed[len(typed)-1] != last {
		t.Fatalf("last rune = %q, want %q", typed[len(typed)-1], last)
	}
}

func TestResizeSetsAspect(t *testing.T) {
	g := newGame(t, "")

	cases := []struct {
		name string
		ev   event.WindowResize
		want float64
	}{
		{"square", event.WindowResize{Width: 800, Height: 800}, 1},
		{"wide", event.WindowResize{Width: 800, Height: 400}, 2},
		{"degenerate_ignored", event.WindowResize{Width: 800, Height: 0}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g.Enqueue(c.ev)
			g.Frame(frameDT)
			if got := g.Active().Camera().Aspect; got != c.want {
				t.Fatalf("aspect = %f, want %f", got, c.want)
			}
		})
	}
}

func TestSceneChange(t *testing.T) {
	g := newGame(t, "lander")
	lander := g.Active()

	g.Enqueue(event.WindowResize{Width: 900, Height: 300})
	g.Enqueue(event.Press(key.Letter('d')))
	g.Enqueue(event.SceneChange{Name: "sandbox"})
	g.Frame(frameDT)

	if g.Active().Name() != "sandbox" {
		t.Fatalf("active scene = %s, want sandbox", g.Active().Name())
	}
	if lander.Controller().Held() != 0 {
		t.Fatalf("old controller should be reset, holds %s", lander.Controller().Held())
	}
	if got := g.Active().Camera().Aspect; got != 3 {
		t.Fatalf("new scene aspect = %f, want 3", got)
	}

	g.Enqueue(event.SceneChange{Name: "moonbase"})
	g.Frame(frameDT)
	if g.Active().Name() != "sandbox" {
		t.Fatalf("unknown scene should be ignored, active = %s", g.Active().Name())
	}

	g.Enqueue(event.SceneChange{Name: "lander"})
	g.Frame(frameDT)
	if g.Active() != lander {
		t.Fatalf("switching back should reuse the lander scene")
	}
}

func TestSceneChangeClosesMenu(t *testing.T) {
	g := newGame(t, "lander")
	g.Enqueue(event.Press(key.Escape))
	g.Frame(frameDT)
	if !g.MenuOpen() {
		t.Fatalf("menu should be open")
	}
	g.Enqueue(event.SceneChange{Name: "sandbox"})
	g.Frame(frameDT)
	if g.MenuOpen() {
		t.Fatalf("picking a scene should close the menu")
	}
}

func TestConfigReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	doc := "input:\n  release_policy: when_all_up\n  bindings:\n    jump: [Enter]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	g := newGame(t, "lander")
	cues := audio.NewCues(44100, 0.5)
	g.SetCues(cues)

	g.Enqueue(event.ConfigReload{Path: path})
	g.Frame(frameDT)

	c := g.Active().Controller()
	if c.Policy() != input.ReleaseWhenAllUp {
		t.Fatalf("policy = %s, want when_all_up", c.Policy())
	}
	if g.System().Policy() != input.ReleaseWhenAllUp {
		t.Fatalf("system controller policy not reloaded")
	}
	if _, ok := c.KeyMap().Lookup(input.KeyBinding(key.Space)); ok {
		t.Fatalf("Space should no longer be bound")
	}
	if g.Config().Path != path {
		t.Fatalf("config path = %q, want %q", g.Config().Path, path)
	}
	if cues.Played(audio.CueReload) != 1 {
		t.Fatalf("reload cue not played")
	}

	g.Enqueue(event.Press(key.Enter))
	g.Frame(frameDT)
	if !c.IsActionHeld(input.Jump) {
		t.Fatalf("Enter should drive Jump after the reload")
	}
}

func TestConfigReloadKeepsOldOnError(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"bad_policy", "input:\n  release_policy: sometimes\n"},
		{"empty_file", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			good := "input:\n  bindings:\n    jump: [Enter]\n"
			if err := os.WriteFile(path, []byte(good), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}

			g := newGame(t, "")
			g.Enqueue(event.ConfigReload{Path: path})
			g.Frame(frameDT)
			if g.Config().Path != path {
				t.Fatalf("first reload did not apply")
			}

			if err := os.WriteFile(path, []byte(c.doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			g.Enqueue(event.ConfigReload{Path: path})
			g.Frame(frameDT)

			if _, ok := g.Config().Input.Bindings["jump"]; !ok || g.Config().Input.Bindings["jump"][0] != "Enter" {
				t.Fatalf("a bad file should not replace the config")
			}
			km := g.Active().Controller().KeyMap()
			if a, ok := km.Lookup(input.KeyBinding(key.Enter)); !ok || a != input.Jump {
				t.Fatalf("bindings from the last good file should survive a bad reload")
			}
			if _, ok := km.Lookup(input.KeyBinding(key.Space)); ok {
				t.Fatalf("a bad reload should not revert to the default bindings")
			}
		})
	}
}

func TestCollisionFansOutToSceneAndCues(t *testing.T) {
	g := newGame(t, "sandbox")
	cues := audio.NewCues(44100, 0.5)
	g.SetCues(cues)

	sandbox := g.Active().(*scene.Sandbox)
	var crate *scene.Object
	for _, o := range sandbox.Objects() {
		if o.Name == "Crate0" {
			crate = o
		}
	}
	if crate == nil {
		t.Fatalf("Crate0 not found")
	}

	g.Enqueue(event.Collision{
		A: event.Contact{Object: crate.ID, Category: scene.CategoryCrate},
		B: event.Contact{Category: scene.CategoryKill},
	})
	g.Frame(frameDT)
	if cues.Played(audio.CueContact) != 1 {
		t.Fatalf("contact cue played %d times, want 1", cues.Played(audio.CueContact))
	}
	if sandbox.Removed() != 0 {
		t.Fatalf("removal should wait for the next drain")
	}

	g.Frame(frameDT)
	if sandbox.Removed() < 1 {
		t.Fatalf("crate should be removed on the next frame")
	}
	if cues.Played(audio.CueRemove) < 1 {
		t.Fatalf("remove cue not played")
	}
}

func TestShutdownDropsPending(t *testing.T) {
	g := newGame(t, "")
	g.Enqueue(event.Char{Rune: 'x'})
	g.Enqueue(event.Press(key.Space))
	if n := g.Shutdown(); n != 2 {
		t.Fatalf("Shutdown dropped %d events, want 2", n)
	}
	if g.Queue().Len() != 0 {
		t.Fatalf("queue should be empty after shutdown")
	}
}

func TestBindingsOverlay(t *testing.T) {
	g := newGame(t, "")
	got := g.Bindings()
	for _, want := range []string{"jump=Space/pad:A", "menu=Escape/pad:Start"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Bindings() = %q, missing %q", got, want)
		}
	}
}
