// Package speaker plays WAV files on the default audio output device.
package speaker

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/audio"
)

type Config struct {
	// SampleRate is the device rate; clips at other rates are resampled.
	SampleRate int
	BufferSize time.Duration
}

// The device context can be created once per process.
var (
	deviceOnce sync.Once
	device     *oto.Context
	deviceRate int
	deviceErr  error
)

func openDevice(cfg Config) (*oto.Context, int, error) {
	deviceOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   cfg.BufferSize,
		})
		if err != nil {
			deviceErr = fmt.Errorf("open audio device: %w", err)
			return
		}
		<-ready
		device, deviceRate = ctx, cfg.SampleRate
		slog.Debug("speaker_ready", slog.Int("sample_rate", cfg.SampleRate))
	})
	return device, deviceRate, deviceErr
}

// Player streams one loaded clip at a time.
type Player struct {
	cfg Config

	mu      sync.Mutex
	clip    *audio.Clip
	current *oto.Player
}

func New(cfg Config) *Player {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100 * time.Millisecond
	}
	return &Player{cfg: cfg}
}

func (p *Player) Name() string { return "speaker" }

func (p *Player) Load(path string) error {
	clip, err := audio.ReadWAV(path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clip = &clip
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return errors.New("no audio loaded")
	}
	ctx, rate, err := openDevice(p.cfg)
	if err != nil {
		return err
	}
	if p.current != nil {
		_ = p.current.Close()
	}
	pcm := audio.EncodeS16LE(audio.Resample(p.clip.Samples, p.clip.SampleRate, rate))
	p.current = ctx.NewPlayer(bytes.NewReader(pcm))
	p.current.Play()
	return nil
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	p.current.Pause()
	err := p.current.Close()
	p.current = nil
	return err
}

func (p *Player) Close() error {
	return p.Stop()
}

var (
	_ player.Player  = (*Player)(nil)
	_ player.Stopper = (*Player)(nil)
	_ player.Closer  = (*Player)(nil)
)
