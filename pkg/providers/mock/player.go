package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
)

type PlayerConfig struct {
	// PlayFor is how long IsPlaying stays true after Play.
	PlayFor time.Duration
	LoadErr error
	PlayErr error
}

// Player pretends to play for a fixed time and records calls.
type Player struct {
	cfg PlayerConfig

	mu        sync.Mutex
	loaded    string
	until     time.Time
	loadCalls []string
	playCalls int
	stopCalls int
}

func NewPlayer(cfg PlayerConfig) *Player {
	return &Player{cfg: cfg}
}

func (p *Player) Name() string { return "mock_player" }

func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadCalls = append(p.loadCalls, path)
	if p.cfg.LoadErr != nil {
		return p.cfg.LoadErr
	}
	p.loaded = path
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playCalls++
	if p.cfg.PlayErr != nil {
		return p.cfg.PlayErr
	}
	if p.loaded == "" {
		return errors.New("nothing loaded")
	}
	p.until = time.Now().Add(p.cfg.PlayFor)
	return nil
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Now().Before(p.until)
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCalls++
	p.until = time.Time{}
	return nil
}

// Calls returns the recorded Load paths, Play count and Stop count.
func (p *Player) Calls() (loads []string, plays, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loadCalls...), p.playCalls, p.stopCalls
}

var (
	_ player.Player  = (*Player)(nil)
	_ player.Stopper = (*Player)(nil)
)
