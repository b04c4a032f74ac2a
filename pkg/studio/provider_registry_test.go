package studio

import (
	"testing"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/providers/mock"
)

func TestProviderRegistry(t *testing.T) {
	reg := NewProviderRegistry()
	reg.RegisterSynthesizer(" Mock ", func(cfg Config) (tts.Synthesizer, error) {
		return mock.NewTTS(mock.TTSConfig{}), nil
	})
	reg.RegisterPlayer("mock", func(cfg Config) (player.Player, error) {
		return mock.NewPlayer(mock.PlayerConfig{}), nil
	})

	if _, err := reg.BuildSynthesizer("MOCK", Config{}); err != nil {
		t.Fatalf("expected case-insensitive lookup, got %v", err)
	}
	if _, err := reg.BuildSynthesizer("nope", Config{}); err == nil {
		t.Fatalf("expected error for unknown synthesizer")
	}
	if _, err := reg.BuildPlayer("nope", Config{}); err == nil {
		t.Fatalf("expected error for unknown player")
	}
	p, err := reg.BuildPlayer(PlayerNone, Config{})
	if err != nil || p != nil {
		t.Fatalf("expected nil player for none, got %v %v", p, err)
	}
	if names := reg.Synthesizers(); len(names) != 1 || names[0] != "mock" {
		t.Fatalf("unexpected names %v", names)
	}
}
