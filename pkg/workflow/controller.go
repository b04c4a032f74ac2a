// Package workflow runs the convert-and-save sequence: validate the request,
// synthesize, persist the waveform and optionally play it back.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/errorsx"
	"github.com/harunnryd/kokoroctl/pkg/fsready"
	"github.com/harunnryd/kokoroctl/pkg/logging"
	"github.com/harunnryd/kokoroctl/pkg/metrics"
	"github.com/harunnryd/kokoroctl/pkg/outdir"
	"github.com/harunnryd/kokoroctl/pkg/redact"
	"github.com/harunnryd/kokoroctl/pkg/voices"
)

// WaveWriter persists a sample buffer as an uncompressed audio file.
type WaveWriter interface {
	Write(path string, samples []float32, sampleRate int) error
}

// Config holds the fixed parameters of a controller.
type Config struct {
	OutputDir string
	ModelName string
	// Speed is passed to every synthesis call.
	Speed float64
	// ReadyTimeout bounds the wait for the output file before playback.
	ReadyTimeout time.Duration
	// PollInterval is the readiness and playback polling period.
	PollInterval time.Duration
	// LockOutputDir takes a cross-process lock on OutputDir for each run.
	LockOutputDir bool
}

// Deps are the collaborators of a controller. Player may be nil when
// autoplay is never requested.
type Deps struct {
	Synthesizer  tts.Synthesizer
	Writer       WaveWriter
	Player       player.Player
	Presenter    Presenter
	Observer     metrics.Observer
	Logger       *slog.Logger
	ReadyChecker fsready.Checker
	Now          func() time.Time
}

// Controller runs one conversion at a time.
type Controller struct {
	cfg       Config
	synth     tts.Synthesizer
	writer    WaveWriter
	player    player.Player
	presenter Presenter
	observer  metrics.Observer
	logger    *slog.Logger
	checker   fsready.Checker
	namer     *Namer

	running sync.Mutex
}

// NewController wires a controller. Missing optional deps get no-op defaults.
func NewController(cfg Config, deps Deps) *Controller {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = fsready.DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = fsready.DefaultInterval
	}
	if deps.Presenter == nil {
		deps.Presenter = nopPresenter{}
	}
	if deps.Observer == nil {
		deps.Observer = metrics.NoopObserver{}
	}
	if deps.ReadyChecker == nil {
		deps.ReadyChecker = fsready.IsReady
	}
	return &Controller{
		cfg:       cfg,
		synth:     deps.Synthesizer,
		writer:    deps.Writer,
		player:    deps.Player,
		presenter: deps.Presenter,
		observer:  deps.Observer,
		logger:    logging.NewComponentLogger(deps.Logger, "workflow"),
		checker:   deps.ReadyChecker,
		namer:     NewNamer(cfg.ModelName, deps.Now),
	}
}

// OutputPath resolves the file a request would be written to.
func (c *Controller) OutputPath(req Request) string {
	return filepath.Join(c.cfg.OutputDir, c.namer.Resolve(req.OutputName, req.Voice))
}

// Convert runs the full workflow for req and returns the final status, which
// is also the last status handed to the presenter. The trigger is disabled for
// the duration of the call and re-enabled on every exit path. Cancelling ctx
// aborts synthesis and any wait in progress.
func (c *Controller) Convert(ctx context.Context, req Request) Status {
	if !c.running.TryLock() {
		st := errorStatus(errorsx.New(errorsx.ReasonBusy, "a conversion is already running"), "")
		c.presenter.SetStatus(st)
		c.logger.Warn("conversion_rejected", "reason", st.Reason)
		return st
	}
	defer c.running.Unlock()

	c.presenter.SetTrigger(LabelBusy, false)
	defer c.presenter.SetTrigger(LabelReady, true)

	log := c.logger.With(slog.String("run_id", uuid.NewString()))
	st := c.run(ctx, log, req)

	result := 0.0
	if !st.IsError() {
		result = 1
	}
	c.observer.RecordEvent(metrics.MetricsEvent{
		Name:  metrics.EventResult,
		Time:  time.Now(),
		Value: result,
		Tags: map[string]string{
			"severity": st.Severity.String(),
			"reason":   string(st.Reason),
			"voice":    req.Voice,
		},
	})
	return st
}

// Reject reports err as a validation failure without running the workflow.
func (c *Controller) Reject(err error) Status {
	return c.fail(c.logger, errorsx.Wrap(err, errorsx.ReasonValidation), "")
}

func (c *Controller) run(ctx context.Context, log *slog.Logger, req Request) Status {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.fail(log, errorsx.New(errorsx.ReasonValidation, "Please enter some text."), "")
	}
	name := c.namer.Resolve(req.OutputName, req.Voice)
	if filepath.Base(name) != name {
		return c.fail(log, errorsx.New(errorsx.ReasonValidation, "Output file name %q must not contain a path", name), "")
	}
	path := filepath.Join(c.cfg.OutputDir, name)

	if c.cfg.LockOutputDir {
		lock, err := outdir.TryLock(c.cfg.OutputDir)
		if err != nil {
			return c.fail(log, errorsx.Wrap(err, errorsx.ReasonBusy), path)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				log.Warn("output_unlock_failed", "error", err)
			}
		}()
	}

	lang := voices.Language(req.Voice)
	log.Info("conversion_started",
		slog.String("voice", req.Voice),
		slog.String("lang", lang),
		slog.String("output", path),
		slog.Bool("autoplay", req.Autoplay),
		slog.String("text", redact.Preview(text, 80)))

	tags := map[string]string{"voice": req.Voice, "provider": c.synth.Name()}
	start := time.Now()
	audio, err := c.synth.Synthesize(ctx, tts.Request{
		Text:     text,
		Voice:    req.Voice,
		Speed:    c.cfg.Speed,
		Language: lang,
	})
	if err != nil {
		return c.fail(log, c.interrupted(ctx, err, errorsx.ReasonSynthesis), path)
	}
	c.observer.RecordEvent(metrics.Millis(metrics.EventSynthesis, time.Since(start), tags))

	start = time.Now()
	if err := c.writer.Write(path, audio.Samples, audio.SampleRate); err != nil {
		return c.fail(log, errorsx.Wrap(err, errorsx.ReasonPersist), path)
	}
	c.observer.RecordEvent(metrics.Millis(metrics.EventPersist, time.Since(start), tags))

	st := Status{Severity: SeveritySuccess, Message: "Success: Audio saved as " + path, Path: path}
	c.presenter.SetStatus(st)
	log.Info("conversion_saved",
		slog.String("output", path),
		slog.Int("sample_rate", audio.SampleRate),
		slog.Duration("duration", audio.Duration()))

	if !req.Autoplay {
		return st
	}

	err = fsready.Wait(ctx, path, fsready.Options{
		Timeout:  c.cfg.ReadyTimeout,
		Interval: c.cfg.PollInterval,
		Checker:  c.checker,
	})
	if errors.Is(err, fsready.ErrNotReady) {
		return c.fail(log, errorsx.New(errorsx.ReasonNotReady, "File %s not ready for playback", path), path)
	}
	if err != nil {
		return c.fail(log, c.interrupted(ctx, err, errorsx.ReasonNotReady), path)
	}

	start = time.Now()
	if err := c.play(ctx, path); err != nil {
		return c.fail(log, c.interrupted(ctx, err, errorsx.ReasonPlayback), path)
	}
	c.observer.RecordEvent(metrics.Millis(metrics.EventPlayback, time.Since(start), tags))
	log.Info("playback_finished", slog.String("output", path))
	return st
}

// play loads and starts the file, then blocks until the player reports it
// finished, preferring the player's completion signal over polling. A player
// that fails after starting reports it through player.Failer.
func (c *Controller) play(ctx context.Context, path string) error {
	if c.player == nil {
		return errors.New("no audio player configured")
	}
	if err := c.player.Load(path); err != nil {
		return err
	}
	if err := c.player.Play(); err != nil {
		return err
	}

	var done <-chan struct{}
	if completer, ok := c.player.(player.Completer); ok {
		done = completer.Done()
	}
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if stopper, ok := c.player.(player.Stopper); ok {
				_ = stopper.Stop()
			}
			return ctx.Err()
		case <-done:
			return c.playbackErr()
		case <-ticker.C:
			if !c.player.IsPlaying() {
				return c.playbackErr()
			}
		}
	}
}

func (c *Controller) playbackErr() error {
	if failer, ok := c.player.(player.Failer); ok {
		return failer.Err()
	}
	return nil
}

// interrupted tags err as a cancellation when ctx ended, otherwise with reason.
func (c *Controller) interrupted(ctx context.Context, err error, reason errorsx.ReasonCode) error {
	if ctx.Err() != nil {
		return errorsx.New(errorsx.ReasonCanceled, "conversion canceled: %v", ctx.Err())
	}
	return errorsx.Wrap(err, reason)
}

func (c *Controller) fail(log *slog.Logger, err error, path string) Status {
	st := errorStatus(err, path)
	c.presenter.SetStatus(st)
	log.Error("conversion_failed",
		slog.String("reason", string(st.Reason)),
		slog.String("output", path),
		slog.String("error", redact.Text(err.Error())))
	return st
}
