package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// speaker.Init is process-wide
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(100*time.Millisecond))
	})
	return speakerErr
}

// Honker plays the reset cue
// Without a working audio device every call is a no-op
type Honker struct {
	cfg  Config
	log  *zap.Logger
	play func(beep.Streamer)
	now  func() time.Time

	mu       sync.Mutex
	honks    int
	lastHonk time.Time
}

// NewHonker opens the speaker when cfg.Enabled; failures disable the honker
func NewHonker(cfg Config, log *zap.Logger) *Honker {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Honker{cfg: cfg, log: log, now: time.Now}
	if !cfg.Enabled {
		return h
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return h
	}

	if err := initSpeaker(beep.SampleRate(cfg.SampleRate)); err != nil {
		log.Warn("audio device unavailable, honks disabled", zap.Error(err))
		return h
	}
	if int(speakerRate) != cfg.SampleRate {
		// Speaker already open at another rate
		h.cfg.SampleRate = int(speakerRate)
	}
	h.play = func(s beep.Streamer) { speaker.Play(s) }
	log.Info("audio enabled",
		zap.Int("sample_rate", h.cfg.SampleRate),
		zap.Float64("volume", cfg.Volume),
	)
	return h
}

// Honk implements engine.Sounder
// A cue requested while the previous one is still sounding is skipped
func (h *Honker) Honk() {
	if h.play == nil {
		return
	}
	h.mu.Lock()
	now := h.now()
	if !h.lastHonk.IsZero() && now.Sub(h.lastHonk) < honkDuration() {
		h.mu.Unlock()
		return
	}
	h.lastHonk = now
	h.honks++
	h.mu.Unlock()
	h.play(NewHonk(h.cfg))
}

// Enabled reports whether honks reach a device
func (h *Honker) Enabled() bool {
	return h.play != nil
}

// Close silences any cue still playing
func (h *Honker) Close() {
	if h.play == nil {
		return
	}
	speaker.Clear()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log.Debug("audio closed", zap.Int("honks", h.honks))
}
