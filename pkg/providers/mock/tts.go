package mock

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
)

type TTSConfig struct {
	SampleRate int
	// ToneHz is the frequency of the generated sine; 0 emits silence.
	ToneHz float64
	// SecondsPerRune sets the output length relative to the text.
	SecondsPerRune float64
	// Voices is returned by Voices.
	Voices []string
	// Err, when set, is returned from every call.
	Err error
}

// Synthesizer emits a deterministic tone and records every request.
type Synthesizer struct {
	cfg TTSConfig

	mu       sync.Mutex
	requests []tts.Request
}

func NewTTS(cfg TTSConfig) *Synthesizer {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.SecondsPerRune == 0 {
		cfg.SecondsPerRune = 0.05
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return tts.Audio{}, err
	}
	if s.cfg.Err != nil {
		return tts.Audio{}, s.cfg.Err
	}
	if req.Text == "" {
		return tts.Audio{}, errors.New("empty text")
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1
	}
	seconds := float64(len([]rune(req.Text))) * s.cfg.SecondsPerRune / speed
	n := int(seconds * float64(s.cfg.SampleRate))
	samples := make([]float32, n)
	if s.cfg.ToneHz > 0 {
		for i := range samples {
			samples[i] = float32(0.2 * math.Sin(2*math.Pi*s.cfg.ToneHz*float64(i)/float64(s.cfg.SampleRate)))
		}
	}
	return tts.Audio{Samples: samples, SampleRate: s.cfg.SampleRate}, nil
}

func (s *Synthesizer) Voices(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.cfg.Voices...), nil
}

// Requests returns a copy of the recorded requests.
func (s *Synthesizer) Requests() []tts.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tts.Request(nil), s.requests...)
}

var (
	_ tts.Synthesizer = (*Synthesizer)(nil)
	_ tts.VoiceLister = (*Synthesizer)(nil)
)
