package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
)

func TestSynthesizerProducesTone(t *testing.T) {
	s := NewTTS(TTSConfig{ToneHz: 440})
	out, err := s.Synthesize(context.Background(), tts.Request{Text: "abcd", Speed: 2})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	// 4 runes * 0.05s / speed 2 = 0.1s
	if out.SampleRate != 24000 || len(out.Samples) != 2400 {
		t.Fatalf("unexpected audio rate=%d len=%d", out.SampleRate, len(out.Samples))
	}
	if len(s.Requests()) != 1 {
		t.Fatalf("expected request recorded")
	}
}

func TestSynthesizerError(t *testing.T) {
	s := NewTTS(TTSConfig{Err: errors.New("boom")})
	if _, err := s.Synthesize(context.Background(), tts.Request{Text: "x"}); err == nil || err.Error() != "boom" {
		t.Fatalf("expected scripted error, got %v", err)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer(PlayerConfig{PlayFor: 20 * time.Millisecond})
	if err := p.Play(); err == nil {
		t.Fatalf("expected error before load")
	}
	if err := p.Load("a.wav"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !p.IsPlaying() {
		t.Fatalf("expected playing")
	}
	time.Sleep(40 * time.Millisecond)
	if p.IsPlaying() {
		t.Fatalf("expected finished")
	}
	loads, plays, stops := p.Calls()
	if len(loads) != 1 || plays != 2 || stops != 0 {
		t.Fatalf("unexpected calls %v %d %d", loads, plays, stops)
	}
}
