package tts

import (
	"context"
	"time"
)

// Synthesizer defines the contract for any TTS vendor implementation.
type Synthesizer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Synthesize renders text into a mono sample buffer.
	Synthesize(ctx context.Context, req Request) (Audio, error)
}

// VoiceLister is implemented by synthesizers that can enumerate their voices.
type VoiceLister interface {
	Voices(ctx context.Context) ([]string, error)
}

// Request is a single synthesis call.
type Request struct {
	Text     string
	Voice    string
	Speed    float64
	Language string
}

// Audio is mono float32 PCM in [-1, 1].
type Audio struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the playback length of the buffer.
func (a Audio) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(a.Samples)) * time.Second / time.Duration(a.SampleRate)
}
