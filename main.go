package main

import (
	"flag"
	"log"
	"time"

	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gameframe/audio"
	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/game"
)

func main() {
	sceneName := flag.String("scene", "", "scene to start in (overrides start_scene)")
	configPath := flag.String("config", "", "path to a YAML config layered over the defaults")
	watch := flag.Bool("watch", false, "reload the config file when it changes")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *sceneName != "" {
		cfg.StartScene = *sceneName
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowClosingHandled(true)

	g, err := game.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Audio.Enabled {
		cues := audio.NewCues(cfg.Audio.SampleRate, cfg.Audio.Volume)
		sr := cues.SampleRate()
		if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
			log.Printf("audio: init speaker: %v", err)
		} else {
			speaker.Play(cues)
			g.SetCues(cues)
		}
	}

	if *watch && cfg.Path != "" {
		w, err := config.NewWatcher(g.Queue(), cfg.Path)
		if err != nil {
			log.Printf("config: watch disabled: %v", err)
		} else {
			defer w.Close()
			go func() {
				for err := range w.Errors {
					log.Printf("config: watch: %v", err)
				}
			}()
		}
	}

	if err := ebiten.RunGame(NewShell(g, *debug)); err != nil {
		log.Fatal(err)
	}
}
