package tui

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

const sampleRate = beep.SampleRate(44100)

const (
	toneVolume = 0.25
	toneFade   = 5 * time.Millisecond
)

// Note frequencies, Hz
const (
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
	noteG4 = 392.00
	noteE4 = 329.63
	noteC4 = 261.63
)

// tone is a sine wave with a short linear fade at both ends
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	fade     int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{
		freq:  freq,
		total: sampleRate.N(d),
		fade:  sampleRate.N(toneFade),
	}
}

// Stream implements beep.Streamer
func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		gain := toneVolume
		if t.position < t.fade {
			gain *= float64(t.position) / float64(t.fade)
		} else if remaining := t.total - t.position; remaining < t.fade {
			gain *= float64(remaining) / float64(t.fade)
		}
		val := gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (t *tone) Err() error { return nil }

// Sound plays short tones for line clears and game over. It is a session
// observer.
type Sound struct {
	play func(beep.Streamer)
}

// NewSound initialises the speaker
func NewSound() (*Sound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	return &Sound{play: func(s beep.Streamer) { speaker.Play(s) }}, nil
}

// Close releases the speaker
func (s *Sound) Close() {
	speaker.Close()
}

// OnSessionEvent plays a rising arpeggio per cleared line and a falling one
// on game over
func (s *Sound) OnSessionEvent(event model.Event) {
	if streamer := toneFor(event); streamer != nil {
		s.play(streamer)
	}
}

func toneFor(event model.Event) beep.Streamer {
	switch event.Type {
	case model.EventLinesCleared:
		payload, ok := event.Payload.(model.LinesClearedPayload)
		if !ok || payload.Count <= 0 {
			return nil
		}
		notes := []float64{noteC5, noteE5, noteG5, noteC6}
		return arpeggio(notes[:min(payload.Count, len(notes))], 70*time.Millisecond)
	case model.EventGameOver:
		return arpeggio([]float64{noteG4, noteE4, noteC4}, 180*time.Millisecond)
	default:
		return nil
	}
}

func arpeggio(freqs []float64, each time.Duration) beep.Streamer {
	tones := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		tones[i] = newTone(f, each)
	}
	return beep.Seq(tones...)
}
