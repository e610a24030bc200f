package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// Honk timing
const (
	honkNoteDuration = 110 * time.Millisecond
	honkGap          = 40 * time.Millisecond
	honkAttack       = 8 * time.Millisecond
	honkRelease      = 60 * time.Millisecond
)

// oscillator generates a fixed-length wave, optionally gliding in pitch
type oscillator struct {
	freq     float64
	glide    float64 // Hz per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newGlide(freq, glide float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		glide:    glide,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.glide*float64(o.position)/float64(o.rate)
		o.phase += max(freq, 0) / float64(o.rate)
		o.phase -= math.Floor(o.phase) // [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; vol <= 0 is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// honkNote is one nasal falling note: a saw with a quieter square an octave down
func honkNote(freq float64, rate beep.SampleRate) beep.Streamer {
	glide := -freq * 0.8 // falls by ~10% over the note
	saw := NewEnvelope(newGlide(freq, glide, honkNoteDuration, WaveSaw, rate),
		honkNoteDuration, honkAttack, honkRelease, rate)
	sub := NewEnvelope(newGlide(freq/2, glide/2, honkNoteDuration, WaveSquare, rate),
		honkNoteDuration, honkAttack, honkRelease, rate)
	return beep.Mix(newVolume(saw, 0.6), newVolume(sub, 0.25))
}

// NewHonk builds the two-note reset cue
func NewHonk(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	return newVolume(beep.Seq(
		honkNote(392, rate), // G4
		beep.Silence(rate.N(honkGap)),
		honkNote(330, rate), // E4
	), cfg.Volume)
}

// honkDuration is the length of the cue produced by NewHonk
func honkDuration() time.Duration {
	return 2*honkNoteDuration + honkGap
}
