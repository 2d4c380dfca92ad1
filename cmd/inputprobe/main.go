// Command inputprobe shows the virtual controller state live in a terminal.
// Key reports are read on their own goroutine and fed through the same event
// queue the game uses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/gameframe/config"
	"github.com/milk9111/gameframe/event"
	"github.com/milk9111/gameframe/input"
	"github.com/milk9111/gameframe/input/key"
)

var specialKeys = map[tcell.Key]key.Code{
	tcell.KeyUp:     key.Up,
	tcell.KeyDown:   key.Down,
	tcell.KeyLeft:   key.Left,
	tcell.KeyRight:  key.Right,
	tcell.KeyEnter:  key.Enter,
	tcell.KeyTab:    key.Tab,
	tcell.KeyEscape: key.Escape,
}

func runeCode(r rune) (key.Code, bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return key.Letter(r), true
	case r >= '0' && r <= '9':
		return key.Code(r), true
	case r == ' ':
		return key.Space, true
	}
	return 0, false
}

type probe struct {
	screen     tcell.Screen
	queue      *event.Queue
	holds      *holds
	controller *input.Controller
	typed      []rune
	events     int
	width      int
	height     int
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config layered over the defaults")
	hold := flag.Duration("hold", 150*time.Millisecond, "release a key after this long without a repeat")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	km, err := cfg.KeyMap()
	if err != nil {
		log.Fatal(err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	q := event.NewQueue()
	p := &probe{
		screen:     screen,
		queue:      q,
		holds:      newHolds(q, *hold),
		controller: input.NewController(km),
	}
	p.controller.SetReleasePolicy(policy)
	p.width, p.height = screen.Size()

	quit := make(chan struct{})
	go p.poll(quit)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			screen.Fini()
			if n := q.Clear(); n > 0 {
				fmt.Fprintf(os.Stderr, "inputprobe: dropped %d pending events\n", n)
			}
			return
		case now := <-ticker.C:
			p.frame(now)
		}
	}
}

// poll runs on its own goroutine and only enqueues.
func (p *probe) poll(quit chan<- struct{}) {
	defer close(quit)
	for {
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			w, h := ev.Size()
			p.queue.Enqueue(event.WindowResize{Width: w, Height: h})
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return
			}
			now := time.Now()
			if ev.Key() == tcell.KeyRune {
				p.queue.Enqueue(event.Char{Rune: ev.Rune()})
				if c, ok := runeCode(ev.Rune()); ok {
					p.holds.press(c, now)
				}
				continue
			}
			if c, ok := specialKeys[ev.Key()]; ok {
				p.holds.press(c, now)
			}
		}
	}
}

func (p *probe) frame(now time.Time) {
	p.holds.expire(now)
	p.controller.StartFrame()
	p.events += p.queue.DrainAndDispatch(p)
	p.draw()
}

func (p *probe) OnEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Input:
		p.controller.OnEvent(e)
	case event.Char:
		p.typed = append(p.typed, e.Rune)
		if len(p.typed) > 40 {
			p.typed = p.typed[1:]
		}
	case event.WindowResize:
		p.width, p.height = e.Width, e.Height
		p.screen.Sync()
	}
}

func (p *probe) draw() {
	p.screen.Clear()

	header := tcell.StyleDefault.Bold(true)
	p.text(0, 0, header, fmt.Sprintf("inputprobe  policy=%s  events=%d  (ctrl-c quits)", p.controller.Policy(), p.events))
	p.text(0, 1, tcell.StyleDefault, "typed: "+string(p.typed))

	km := p.controller.KeyMap()
	for i, a := range input.AllActions() {
		y := i + 3
		if y >= p.height {
			break
		}
		style := tcell.StyleDefault
		state := ""
		switch {
		case p.controller.IsActionPressed(a):
			style = style.Foreground(tcell.ColorGreen).Bold(true)
			state = "pressed"
		case p.controller.IsActionReleased(a):
			style = style.Foreground(tcell.ColorYellow)
			state = "released"
		case p.controller.IsActionHeld(a):
			style = style.Foreground(tcell.ColorGreen)
			state = "held"
		}
		p.text(0, y, style, fmt.Sprintf("%-11s %-9s %s", a, state, km.Describe(a)))
	}

	p.screen.Show()
}

func (p *probe) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= p.width {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
