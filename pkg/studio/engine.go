// Package studio wires configuration, providers and the conversion workflow
// into a ready-to-use engine.
package studio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/audio"
	"github.com/harunnryd/kokoroctl/pkg/configutil"
	"github.com/harunnryd/kokoroctl/pkg/fsready"
	"github.com/harunnryd/kokoroctl/pkg/logging"
	"github.com/harunnryd/kokoroctl/pkg/metrics"
	"github.com/harunnryd/kokoroctl/pkg/observers"
	"github.com/harunnryd/kokoroctl/pkg/outdir"
	"github.com/harunnryd/kokoroctl/pkg/redact"
	"github.com/harunnryd/kokoroctl/pkg/resilience"
	"github.com/harunnryd/kokoroctl/pkg/voices"
	"github.com/harunnryd/kokoroctl/pkg/workflow"
)

type Engine struct {
	cfg        Config
	providers  *ProviderRegistry
	synth      tts.Synthesizer
	player     player.Player
	catalog    *voices.Catalog
	controller *workflow.Controller
	logger     *slog.Logger
	closers    []io.Closer
}

type EngineOptions struct {
	Config    Config
	Providers *ProviderRegistry
	Presenter workflow.Presenter
	Logger    *slog.Logger
	// Observers receive workflow metrics next to the built-in ones.
	Observers []metrics.Observer
	// Writer overrides the WAV writer.
	Writer workflow.WaveWriter
}

// NewEngine prepares the output directory, builds the configured providers and
// loads the voice catalog. ctx bounds the provider voice listing fallback.
func NewEngine(ctx context.Context, opts EngineOptions) (*Engine, error) {
	cfg := opts.Config
	redact.SetEnabled(cfg.Privacy.RedactPII)
	logger := logging.NewComponentLogger(opts.Logger, "studio")

	logger.Info("kokoroctl_init",
		"tts_provider", cfg.Vendors.TTS.Provider,
		"player_provider", cfg.Vendors.Player.Provider,
		"output_dir", cfg.Output.Dir,
		"model_path", cfg.ModelPath,
		"voices_path", cfg.VoicesPath,
	)

	if err := outdir.Ensure(cfg.Output.Dir); err != nil {
		return nil, err
	}
	if cfg.Output.RetentionDays > 0 {
		n, err := observers.PurgeArtifacts(cfg.Output.Dir, workflow.Extension, time.Duration(cfg.Output.RetentionDays)*24*time.Hour)
		if err != nil {
			logger.Warn("retention_purge_failed", "error", err)
		} else if n > 0 {
			logger.Info("retention_purged", "files", n)
		}
	}

	e := &Engine{cfg: cfg, providers: opts.Providers, logger: logger}
	if e.providers == nil {
		e.providers = NewProviderRegistry()
	}

	obsList := []metrics.Observer{observers.NewLoggerObserver(opts.Logger)}
	if path := strings.TrimSpace(cfg.Observability.MetricsPath); path != "" {
		jsonl, err := metrics.OpenJSONLObserver(path)
		if err != nil {
			return nil, err
		}
		obsList = append(obsList, jsonl)
		e.closers = append(e.closers, jsonl)
	}
	obsList = append(obsList, opts.Observers...)

	synth, err := e.providers.BuildSynthesizer(cfg.Vendors.TTS.Provider, cfg)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	if cfg.Resilience.RateLimitThreshold > 0 {
		breaker := resilience.NewCircuitBreaker(cfg.Resilience.RateLimitThreshold,
			configutil.Millis(cfg.Resilience.CooldownMS, 30*time.Second))
		synth = tts.WithCircuitBreaker(synth, breaker)
	}
	e.synth = synth

	pl, err := e.providers.BuildPlayer(cfg.Vendors.Player.Provider, cfg)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.player = pl
	if c, ok := pl.(player.Closer); ok {
		e.closers = append(e.closers, c)
	}

	e.catalog = e.loadCatalog(ctx)

	writer := opts.Writer
	if writer == nil {
		writer = audio.NewWAVWriter()
	}
	e.controller = workflow.NewController(workflow.Config{
		OutputDir:     cfg.Output.Dir,
		ModelName:     cfg.ModelName,
		Speed:         cfg.Workflow.Speed,
		ReadyTimeout:  configutil.Millis(cfg.Workflow.ReadyTimeoutMS, fsready.DefaultTimeout),
		PollInterval:  configutil.Millis(cfg.Workflow.PollIntervalMS, fsready.DefaultInterval),
		LockOutputDir: cfg.Output.Lock,
	}, workflow.Deps{
		Synthesizer: synth,
		Writer:      writer,
		Player:      pl,
		Presenter:   opts.Presenter,
		Observer:    observers.NewMultiObserver(obsList...),
		Logger:      opts.Logger,
	})
	return e, nil
}

// loadCatalog reads the voice-data file; when that yields nothing usable and
// the synthesizer can list voices, the provider's list is used instead.
func (e *Engine) loadCatalog(ctx context.Context) *voices.Catalog {
	ids := voices.Load(e.cfg.VoicesPath)
	catalog := voices.NewCatalog(ids)
	if catalog.Usable() {
		e.logger.Info("voices_loaded", "count", len(ids), "source", e.cfg.VoicesPath)
		return catalog
	}
	lister, ok := e.synth.(tts.VoiceLister)
	if !ok {
		e.logger.Warn("voices_unavailable", "entry", catalog.Default())
		return catalog
	}
	listCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	listed, err := lister.Voices(listCtx)
	if err != nil || len(listed) == 0 {
		e.logger.Warn("voices_unavailable", "entry", catalog.Default(), "provider_error", err)
		return catalog
	}
	e.logger.Info("voices_loaded", "count", len(listed), "source", e.synth.Name())
	return voices.NewCatalog(listed)
}

// Convert resolves the voice against the catalog and runs the workflow.
func (e *Engine) Convert(ctx context.Context, req workflow.Request) workflow.Status {
	voice, err := e.catalog.Resolve(req.Voice)
	if err != nil {
		return e.controller.Reject(err)
	}
	req.Voice = voice
	return e.controller.Convert(ctx, req)
}

func (e *Engine) Catalog() *voices.Catalog {
	return e.catalog
}

func (e *Engine) Controller() *workflow.Controller {
	return e.controller
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) ProviderRegistry() *ProviderRegistry {
	return e.providers
}

// Close releases the player and metric sinks.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
