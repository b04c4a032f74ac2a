// Package command plays files through an external program such as aplay,
// afplay or ffplay.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
)

type Config struct {
	Command string
	// Args may reference {file}; when absent the path is appended.
	Args []string
}

type Player struct {
	cfg Config

	mu      sync.Mutex
	path    string
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func New(cfg Config) *Player {
	done := make(chan struct{})
	close(done)
	return &Player{cfg: cfg, done: done}
}

func (p *Player) Name() string { return "command_player" }

func (p *Player) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Command == "" {
		return errors.New("player command not configured")
	}
	if p.path == "" {
		return errors.New("no audio loaded")
	}
	if p.running() {
		return errors.New("already playing")
	}

	cmd := exec.Command(p.cfg.Command, p.args()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.cfg.Command, err)
	}

	done := make(chan struct{})
	p.cmd, p.done, p.waitErr = cmd, done, nil
	go func() {
		err := cmd.Wait()
		if err != nil {
			slog.Warn("player_command_exit",
				slog.String("command", p.cfg.Command),
				slog.String("error", err.Error()),
				slog.String("stderr", strings.TrimSpace(stderr.String())))
		}
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

func (p *Player) args() []string {
	out := make([]string, 0, len(p.cfg.Args)+1)
	substituted := false
	for _, a := range p.cfg.Args {
		if strings.Contains(a, "{file}") {
			substituted = true
			a = strings.ReplaceAll(a, "{file}", p.path)
		}
		out = append(out, a)
	}
	if !substituted {
		out = append(out, p.path)
	}
	return out
}

func (p *Player) running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running()
}

// Done is closed when the current playback process exits.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err returns the exit error of the last finished process.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

func (p *Player) Stop() error {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	running := p.running()
	p.mu.Unlock()
	if !running || cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	<-done
	return nil
}

var (
	_ player.Player    = (*Player)(nil)
	_ player.Completer = (*Player)(nil)
	_ player.Stopper   = (*Player)(nil)
	_ player.Failer    = (*Player)(nil)
)
