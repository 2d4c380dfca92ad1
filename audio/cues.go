package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/milk9111/gameframe/event"
)

// Cue names a sound.
type Cue int

const (
	CueContact Cue = iota
	CueRemove
	CueScene
	CueReload

	numCues
)

func (c Cue) String() string {
	switch c {
	case CueContact:
		return "contact"
	case CueRemove:
		return "remove"
	case CueScene:
		return "scene"
	case CueReload:
		return "reload"
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

// Cues turns game events into short synthesized sounds. It is an event sink
// on the game goroutine and a beep.Streamer on the speaker goroutine.
type Cues struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	rate   beep.SampleRate
	volume float64
	muted  bool
	played [numCues]int
}

// NewCues creates a cue player at the given sample rate and linear volume.
func NewCues(rate int, volume float64) *Cues {
	return &Cues{
		mixer:  &beep.Mixer{},
		rate:   beep.SampleRate(rate),
		volume: volume,
	}
}

// SampleRate returns the rate cues are rendered at.
func (c *Cues) SampleRate() beep.SampleRate {
	return c.rate
}

// SetMuted stops new cues from being queued.
func (c *Cues) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
	if muted {
		c.mixer.Clear()
	}
}

// SetVolume changes the volume of cues played from now on.
func (c *Cues) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = volume
}

// OnEvent plays the cue for ev, if it has one.
func (c *Cues) OnEvent(ev event.Event) {
	switch ev.(type) {
	case event.Collision:
		c.Play(CueContact)
	case event.RemoveObject:
		c.Play(CueRemove)
	case event.SceneChange:
		c.Play(CueScene)
	case event.ConfigReload:
		c.Play(CueReload)
	}
}

// Play queues cue on the mixer.
func (c *Cues) Play(cue Cue) {
	if cue < 0 || cue >= numCues {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muted {
		return
	}
	c.played[cue]++
	c.mixer.Add(c.render(cue))
}

// Played returns how many times cue has been queued.
func (c *Cues) Played(cue Cue) int {
	if cue < 0 || cue >= numCues {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played[cue]
}

// Active returns the number of cues still sounding.
func (c *Cues) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Len()
}

func (c *Cues) render(cue Cue) beep.Streamer {
	const ms = time.Millisecond
	var s beep.Streamer
	switch cue {
	case CueContact:
		d := 90 * ms
		s = NewEnvelope(NewTone(0, 0, d, WaveNoise, c.rate), d, 2*ms, 70*ms, c.rate)
	case CueRemove:
		d := 160 * ms
		s = NewEnvelope(NewTone(660, -440, d, WaveSquare, c.rate), d, 5*ms, 100*ms, c.rate)
	case CueScene:
		d := 300 * ms
		s = beep.Mix(
			newVolume(NewEnvelope(NewTone(523.25, 0, d, WaveSine, c.rate), d, 10*ms, 200*ms, c.rate), 0.6),
			newVolume(NewEnvelope(NewTone(783.99, 0, d, WaveSine, c.rate), d, 60*ms, 200*ms, c.rate), 0.4),
		)
	case CueReload:
		d := 120 * ms
		s = NewEnvelope(NewTone(440, 440, d, WaveSine, c.rate), d, 5*ms, 60*ms, c.rate)
	}
	return newVolume(s, c.volume)
}

// Stream mixes every active cue. Silence is streamed when none are active.
func (c *Cues) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Stream(samples)
}

func (c *Cues) Err() error { return nil }
