package local

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestSynthesizeReadsStdout(t *testing.T) {
	requireShell(t)
	s := New(Config{
		Command:    "sh",
		Args:       []string{"-c", `test "$1" = af_bella || exit 3; cat >/dev/null; printf '\000\100\000\300'`, "sh", "{voice}"},
		SampleRate: 22050,
	})
	out, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello", Voice: "af_bella"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if out.SampleRate != 22050 || len(out.Samples) != 2 || out.Samples[0] != 0.5 || out.Samples[1] != -0.5 {
		t.Fatalf("unexpected audio %+v", out)
	}
}

func TestSynthesizeReportsStderr(t *testing.T) {
	requireShell(t)
	s := New(Config{Command: "sh", Args: []string{"-c", "echo model missing >&2; exit 1"}})
	_, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello"})
	if err == nil || !strings.Contains(err.Error(), "model missing") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestSynthesizeEmptyOutput(t *testing.T) {
	requireShell(t)
	s := New(Config{Command: "sh", Args: []string{"-c", "cat >/dev/null"}})
	if _, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello"}); err == nil {
		t.Fatalf("expected error for empty output")
	}
}

func TestSynthesizeCanceled(t *testing.T) {
	requireShell(t)
	s := New(Config{Command: "sh", Args: []string{"-c", "exec sleep 5"}})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Synthesize(ctx, tts.Request{Text: "Hello"})
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMissingCommand(t *testing.T) {
	if _, err := New(Config{}).Synthesize(context.Background(), tts.Request{Text: "hi"}); err == nil {
		t.Fatalf("expected config error")
	}
}
