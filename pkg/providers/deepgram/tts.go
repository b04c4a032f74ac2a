package deepgram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/speak/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/speak"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/audio"
	"github.com/harunnryd/kokoroctl/pkg/logging"
)

type Config struct {
	APIKey string
	// Model is the Aura voice model used when VoiceMap has no entry.
	Model      string
	VoiceMap   map[string]string
	SampleRate int
	Host       string
}

// SpeakTTS synthesizes through the Deepgram speak REST API as raw linear16.
type SpeakTTS struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *SpeakTTS {
	if cfg.Model == "" {
		cfg.Model = "aura-asteria-en"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	return &SpeakTTS{cfg: cfg, logger: logging.NewComponentLogger(nil, "deepgram_tts")}
}

func (s *SpeakTTS) Name() string { return "deepgram_tts" }

func (s *SpeakTTS) model(voice string) string {
	if m, ok := s.cfg.VoiceMap[voice]; ok {
		return m
	}
	return s.cfg.Model
}

func (s *SpeakTTS) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	if s.cfg.APIKey == "" {
		return tts.Audio{}, errors.New("missing deepgram config")
	}
	model := s.model(req.Voice)

	c := client.NewREST(s.cfg.APIKey, &interfaces.ClientOptions{Host: s.cfg.Host})
	dg := api.New(c)

	options := &interfaces.SpeakOptions{
		Model:      model,
		Encoding:   "linear16",
		Container:  "none",
		SampleRate: s.cfg.SampleRate,
	}
	var buf interfaces.RawResponse
	if _, err := dg.ToStream(ctx, req.Text, options, &buf); err != nil {
		if ctx.Err() != nil {
			return tts.Audio{}, ctx.Err()
		}
		s.logger.Error("deepgram_speak_error",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return tts.Audio{}, fmt.Errorf("deepgram speak: %w", err)
	}

	if buf.Len() < 2 {
		return tts.Audio{}, errors.New("deepgram returned no audio")
	}
	s.logger.Debug("deepgram_synthesized",
		slog.String("model", model),
		slog.Int("size_bytes", buf.Len()))
	return tts.Audio{Samples: audio.DecodeS16LE(buf.Bytes()), SampleRate: s.cfg.SampleRate}, nil
}

var _ tts.Synthesizer = (*SpeakTTS)(nil)
