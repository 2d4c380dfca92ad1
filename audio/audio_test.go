package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/milk9111/gameframe/event"
)

const testRate = beep.SampleRate(44100)

func TestToneWaves(t *testing.T) {
	cases := []struct {
		name string
		wave Wave
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"noise", WaveNoise},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tone := NewTone(440, 220, 100*time.Millisecond, c.wave, testRate)
			samples := make([][2]float64, 100)
			n, ok := tone.Stream(samples)
			if !ok || n != 100 {
				t.Fatalf("Stream = %d, %v; want 100, true", n, ok)
			}
			for i := 0; i < n; i++ {
				if samples[i][0] < -1 || samples[i][0] > 1 {
					t.Fatalf("sample %d out of range: %f", i, samples[i][0])
				}
				if samples[i][0] != samples[i][1] {
					t.Fatalf("sample %d is not mono: %v", i, samples[i])
				}
			}
			if tone.Err() != nil {
				t.Fatalf("unexpected error: %v", tone.Err())
			}
		})
	}
}

func TestToneEndsAfterDuration(t *testing.T) {
	tone := NewTone(440, 0, 10*time.Millisecond, WaveSine, testRate)
	want := testRate.N(10 * time.Millisecond)

	samples := make([][2]float64, want+50)
	n, ok := tone.Stream(samples)
	if !ok || n != want {
		t.Fatalf("first Stream = %d, %v; want %d, true", n, ok, want)
	}
	if n, ok := tone.Stream(samples); ok || n != 0 {
		t.Fatalf("drained tone Stream = %d, %v; want 0, false", n, ok)
	}
}

func TestEnvelopeRampsFromSilence(t *testing.T) {
	d := 50 * time.Millisecond
	env := NewEnvelope(NewTone(0, 0, d, WaveSquare, testRate), d, 10*time.Millisecond, 10*time.Millisecond, testRate)

	samples := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(samples)
	if n != len(samples) {
		t.Fatalf("Stream = %d, want %d", n, len(samples))
	}
	if samples[0][0] != 0 {
		t.Fatalf("first sample should be silent, got %f", samples[0][0])
	}
	mid := samples[n/2][0]
	if mid != 1 && mid != -1 {
		t.Fatalf("sustain should be full scale, got %f", mid)
	}
	if last := samples[n-1][0]; last > 0.01 || last < -0.01 {
		t.Fatalf("last sample should be near silent, got %f", last)
	}
}

func TestCuesFollowEvents(t *testing.T) {
	cases := []struct {
		ev   event.Event
		want Cue
	}{
		{event.Collision{}, CueContact},
		{event.RemoveObject{Object: 3}, CueRemove},
		{event.SceneChange{Name: "lander"}, CueScene},
		{event.ConfigReload{Path: "x.yaml"}, CueReload},
	}

	for _, c := range cases {
		t.Run(c.want.String(), func(t *testing.T) {
			cues := NewCues(int(testRate), 0.5)
			cues.OnEvent(c.ev)
			if got := cues.Played(c.want); got != 1 {
				t.Fatalf("Played(%s) = %d, want 1", c.want, got)
			}
			if cues.Active() != 1 {
				t.Fatalf("Active() = %d, want 1", cues.Active())
			}
		})
	}
}

func TestCuesIgnoreInput(t *testing.T) {
	cues := NewCues(int(testRate), 0.5)
	cues.OnEvent(event.Char{Rune: 'x'})
	cues.OnEvent(event.WindowResize{Width: 10, Height: 10})
	if cues.Active() != 0 {
		t.Fatalf("Active() = %d, want 0", cues.Active())
	}
}

func TestCuesFinishWhileStreaming(t *testing.T) {
	cues := NewCues(int(testRate), 1)
	cues.Play(CueContact)
	cues.Play(CueRemove)

	// longer than every cue
	samples := make([][2]float64, testRate.N(500*time.Millisecond))
	n, ok := cues.Stream(samples)
	if !ok || n != len(samples) {
		t.Fatalf("Stream = %d, %v; want %d, true", n, ok, len(samples))
	}
	for i := range samples {
		if samples[i][0] < -2 || samples[i][0] > 2 {
			t.Fatalf("sample %d out of range: %f", i, samples[i][0])
		}
	}
	if cues.Active() != 0 {
		t.Fatalf("Active() = %d after streaming, want 0", cues.Active())
	}
	if cues.Played(CueContact) != 1 || cues.Played(CueRemove) != 1 {
		t.Fatalf("play counts should survive the cue ending")
	}
}

func TestCuesMuted(t *testing.T) {
	cues := NewCues(int(testRate), 1)
	cues.Play(CueScene)
	cues.SetMuted(true)
	if cues.Active() != 0 {
		t.Fatalf("muting should stop active cues")
	}
	cues.Play(CueScene)
	if cues.Played(CueScene) != 1 {
		t.Fatalf("muted Play should not count, got %d", cues.Played(CueScene))
	}
	if cues.Played(Cue(42)) != 0 {
		t.Fatalf("unknown cue should report 0")
	}
}
