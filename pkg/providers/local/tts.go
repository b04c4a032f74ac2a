// Package local runs an on-device synthesis binary that reads text on stdin
// and writes raw 16-bit mono PCM on stdout.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/audio"
)

type Config struct {
	Command string
	// Args may reference {voice}, {speed}, {lang}, {model} and {voices}.
	Args       []string
	ModelPath  string
	VoicesPath string
	SampleRate int
	Env        []string
}

type Synthesizer struct {
	cfg Config
}

func New(cfg Config) *Synthesizer {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "local_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	if s.cfg.Command == "" {
		return tts.Audio{}, errors.New("local synthesizer command not configured")
	}
	speed := req.Speed
	if speed <= 0 {
		speed = 1
	}
	repl := strings.NewReplacer(
		"{voice}", req.Voice,
		"{speed}", strconv.FormatFloat(speed, 'f', 2, 64),
		"{lang}", req.Language,
		"{model}", s.cfg.ModelPath,
		"{voices}", s.cfg.VoicesPath,
	)
	args := make([]string, len(s.cfg.Args))
	for i, a := range s.cfg.Args {
		args[i] = repl.Replace(a)
	}

	cmd := exec.CommandContext(ctx, s.cfg.Command, args...)
	cmd.WaitDelay = time.Second
	if len(s.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), s.cfg.Env...)
	}
	cmd.Stdin = bytes.NewBufferString(req.Text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return tts.Audio{}, ctx.Err()
		}
		return tts.Audio{}, fmt.Errorf("%s failed: %w, stderr: %s", s.cfg.Command, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return tts.Audio{}, fmt.Errorf("%s produced no audio", s.cfg.Command)
	}

	slog.Debug("local_synthesized",
		slog.String("command", s.cfg.Command),
		slog.Int("size_bytes", stdout.Len()))
	return tts.Audio{Samples: audio.DecodeS16LE(stdout.Bytes()), SampleRate: s.cfg.SampleRate}, nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
