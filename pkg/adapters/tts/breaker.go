package tts

import (
	"context"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/errorsx"
	"github.com/harunnryd/kokoroctl/pkg/resilience"
)

type breakerSynthesizer struct {
	inner   Synthesizer
	breaker *resilience.CircuitBreaker
}

// WithCircuitBreaker short-circuits calls while the breaker is open.
// Rate-limit errors count towards opening it; nothing is retried.
func WithCircuitBreaker(inner Synthesizer, breaker *resilience.CircuitBreaker) Synthesizer {
	if breaker == nil {
		return inner
	}
	return &breakerSynthesizer{inner: inner, breaker: breaker}
}

func (b *breakerSynthesizer) Name() string { return b.inner.Name() }

func (b *breakerSynthesizer) Synthesize(ctx context.Context, req Request) (Audio, error) {
	if wait := b.breaker.RetryIn(); wait > 0 {
		return Audio{}, errorsx.New(errorsx.ReasonTTSCircuitOpen, "%s: too many rate-limited requests, try again in %s", b.inner.Name(), wait.Round(time.Second))
	}
	audio, err := b.inner.Synthesize(ctx, req)
	if err != nil {
		b.breaker.OnError(err)
		if resilience.IsRateLimit(err) {
			return Audio{}, errorsx.Wrap(err, errorsx.ReasonTTSRateLimit)
		}
		return Audio{}, err
	}
	b.breaker.OnSuccess()
	return audio, nil
}

// Voices forwards to the wrapped synthesizer when it can list voices.
func (b *breakerSynthesizer) Voices(ctx context.Context) ([]string, error) {
	if lister, ok := b.inner.(VoiceLister); ok {
		return lister.Voices(ctx)
	}
	return nil, nil
}
