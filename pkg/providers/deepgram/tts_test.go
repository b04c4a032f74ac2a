package deepgram

import (
	"context"
	"testing"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
)

func TestDefaults(t *testing.T) {
	s := New(Config{APIKey: "k"})
	if s.cfg.Model != "aura-asteria-en" || s.cfg.SampleRate != 24000 {
		t.Fatalf("unexpected defaults %+v", s.cfg)
	}
	if s.Name() != "deepgram_tts" {
		t.Fatalf("unexpected name %q", s.Name())
	}
}

func TestModelMapping(t *testing.T) {
	s := New(Config{APIKey: "k", VoiceMap: map[string]string{"bm_george": "aura-orion-en"}})
	if got := s.model("bm_george"); got != "aura-orion-en" {
		t.Fatalf("expected mapped model, got %q", got)
	}
	if got := s.model("af_bella"); got != "aura-asteria-en" {
		t.Fatalf("expected default model, got %q", got)
	}
}

func TestMissingAPIKey(t *testing.T) {
	if _, err := New(Config{}).Synthesize(context.Background(), tts.Request{Text: "hi"}); err == nil {
		t.Fatalf("expected config error")
	}
}
