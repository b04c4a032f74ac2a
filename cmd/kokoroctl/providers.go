package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/configutil"
	"github.com/harunnryd/kokoroctl/pkg/providers/command"
	"github.com/harunnryd/kokoroctl/pkg/providers/deepgram"
	"github.com/harunnryd/kokoroctl/pkg/providers/elevenlabs"
	"github.com/harunnryd/kokoroctl/pkg/providers/kokoro"
	"github.com/harunnryd/kokoroctl/pkg/providers/local"
	"github.com/harunnryd/kokoroctl/pkg/providers/mock"
	"github.com/harunnryd/kokoroctl/pkg/providers/speaker"
	"github.com/harunnryd/kokoroctl/pkg/studio"
)

type kokoroSettings struct {
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

type localSettings struct {
	Command    string   `mapstructure:"command"`
	Args       []string `mapstructure:"args"`
	SampleRate int      `mapstructure:"sample_rate"`
	Env        []string `mapstructure:"env"`
}

type elevenLabsSettings struct {
	APIKey     string            `mapstructure:"api_key"`
	VoiceID    string            `mapstructure:"voice_id"`
	ModelID    string            `mapstructure:"model_id"`
	SampleRate int               `mapstructure:"sample_rate"`
	VoiceMap   map[string]string `mapstructure:"voice_map"`
	BaseURL    string            `mapstructure:"base_url"`
	TimeoutMS  int               `mapstructure:"timeout_ms"`
}

type deepgramSettings struct {
	APIKey     string            `mapstructure:"api_key"`
	Model      string            `mapstructure:"model"`
	VoiceMap   map[string]string `mapstructure:"voice_map"`
	SampleRate int               `mapstructure:"sample_rate"`
	Host       string            `mapstructure:"host"`
}

type mockTTSSettings struct {
	ToneHz         float64  `mapstructure:"tone_hz"`
	SecondsPerRune float64  `mapstructure:"seconds_per_rune"`
	SampleRate     int      `mapstructure:"sample_rate"`
	Voices         []string `mapstructure:"voices"`
	Error          string   `mapstructure:"error"`
}

type speakerSettings struct {
	SampleRate int `mapstructure:"sample_rate"`
	BufferMS   int `mapstructure:"buffer_ms"`
}

type commandSettings struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type mockPlayerSettings struct {
	PlayMS int    `mapstructure:"play_ms"`
	Error  string `mapstructure:"error"`
}

// defaultLocalArgs follow the kokoro-onnx style wrappers: model and voice-data
// paths plus the per-request voice, language and speed, raw PCM on stdout.
var defaultLocalArgs = []string{
	"--model", "{model}",
	"--voices", "{voices}",
	"--voice", "{voice}",
	"--lang", "{lang}",
	"--speed", "{speed}",
	"--output-raw",
}

const (
	ttsSettingsPath    = "vendors.tts.settings"
	playerSettingsPath = "vendors.player.settings"
)

func registerProviders(reg *studio.ProviderRegistry) {
	reg.RegisterSynthesizer("kokoro", func(cfg studio.Config) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(ttsSettingsPath, cfg.Vendors.TTS.Settings, configutil.Schema{
			Optional: []string{"base_url", "model", "api_key", "timeout_ms"},
		}); err != nil {
			return nil, err
		}
		var settings kokoroSettings
		if err := configutil.DecodeSettings(cfg.Vendors.TTS.Settings, &settings); err != nil {
			return nil, err
		}
		return kokoro.New(kokoro.Config{
			BaseURL: settings.BaseURL,
			Model:   configutil.StringValue(settings.Model, cfg.ModelName),
			APIKey:  settings.APIKey,
			Timeout: configutil.Millis(settings.TimeoutMS, 60*time.Second),
		}), nil
	})

	reg.RegisterSynthesizer("local", func(cfg studio.Config) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(ttsSettingsPath, cfg.Vendors.TTS.Settings, configutil.Schema{
			Required: []string{"command"},
			Optional: []string{"args", "sample_rate", "env"},
		}); err != nil {
			return nil, err
		}
		var settings localSettings
		if err := configutil.DecodeSettings(cfg.Vendors.TTS.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.Command, ttsSettingsPath+".command"); err != nil {
			return nil, err
		}
		args := settings.Args
		if len(args) == 0 {
			args = defaultLocalArgs
		}
		return local.New(local.Config{
			Command:    settings.Command,
			Args:       args,
			ModelPath:  cfg.ModelPath,
			VoicesPath: cfg.VoicesPath,
			SampleRate: settings.SampleRate,
			Env:        settings.Env,
		}), nil
	})

	reg.RegisterSynthesizer("elevenlabs", func(cfg studio.Config) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(ttsSettingsPath, cfg.Vendors.TTS.Settings, configutil.Schema{
			Required: []string{"api_key", "voice_id"},
			Optional: []string{"model_id", "sample_rate", "voice_map", "base_url", "timeout_ms"},
		}); err != nil {
			return nil, err
		}
		var settings elevenLabsSettings
		if err := configutil.DecodeSettings(cfg.Vendors.TTS.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.APIKey, ttsSettingsPath+".api_key"); err != nil {
			return nil, err
		}
		if !validPCMRate(settings.SampleRate) {
			return nil, fmt.Errorf("%s.sample_rate must be one of [16000, 22050, 24000, 44100], got %d", ttsSettingsPath, settings.SampleRate)
		}
		return elevenlabs.New(elevenlabs.Config{
			APIKey:     settings.APIKey,
			VoiceID:    settings.VoiceID,
			ModelID:    configutil.StringValue(settings.ModelID, "eleven_multilingual_v2"),
			SampleRate: settings.SampleRate,
			VoiceMap:   settings.VoiceMap,
			BaseURL:    settings.BaseURL,
			Timeout:    configutil.Millis(settings.TimeoutMS, 60*time.Second),
		}), nil
	})

	reg.RegisterSynthesizer("deepgram", func(cfg studio.Config) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(ttsSettingsPath, cfg.Vendors.TTS.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "voice_map", "sample_rate", "host"},
		}); err != nil {
			return nil, err
		}
		var settings deepgramSettings
		if err := configutil.DecodeSettings(cfg.Vendors.TTS.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.APIKey, ttsSettingsPath+".api_key"); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			VoiceMap:   settings.VoiceMap,
			SampleRate: settings.SampleRate,
			Host:       settings.Host,
		}), nil
	})

	reg.RegisterSynthesizer("mock", func(cfg studio.Config) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(ttsSettingsPath, cfg.Vendors.TTS.Settings, configutil.Schema{
			Optional: []string{"tone_hz", "seconds_per_rune", "sample_rate", "voices", "error"},
		}); err != nil {
			return nil, err
		}
		var settings mockTTSSettings
		if err := configutil.DecodeSettings(cfg.Vendors.TTS.Settings, &settings); err != nil {
			return nil, err
		}
		mcfg := mock.TTSConfig{
			SampleRate:     settings.SampleRate,
			ToneHz:         settings.ToneHz,
			SecondsPerRune: settings.SecondsPerRune,
			Voices:         settings.Voices,
		}
		if msg := strings.TrimSpace(settings.Error); msg != "" {
			mcfg.Err = errors.New(msg)
		}
		return mock.NewTTS(mcfg), nil
	})

	reg.RegisterPlayer("speaker", func(cfg studio.Config) (player.Player, error) {
		if err := configutil.ValidateSettings(playerSettingsPath, cfg.Vendors.Player.Settings, configutil.Schema{
			Optional: []string{"sample_rate", "buffer_ms"},
		}); err != nil {
			return nil, err
		}
		var settings speakerSettings
		if err := configutil.DecodeSettings(cfg.Vendors.Player.Settings, &settings); err != nil {
			return nil, err
		}
		return speaker.New(speaker.Config{
			SampleRate: settings.SampleRate,
			BufferSize: configutil.Millis(settings.BufferMS, 100*time.Millisecond),
		}), nil
	})

	reg.RegisterPlayer("command", func(cfg studio.Config) (player.Player, error) {
		if err := configutil.ValidateSettings(playerSettingsPath, cfg.Vendors.Player.Settings, configutil.Schema{
			Required: []string{"command"},
			Optional: []string{"args"},
		}); err != nil {
			return nil, err
		}
		var settings commandSettings
		if err := configutil.DecodeSettings(cfg.Vendors.Player.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.Command, playerSettingsPath+".command"); err != nil {
			return nil, err
		}
		return command.New(command.Config{Command: settings.Command, Args: settings.Args}), nil
	})

	reg.RegisterPlayer("mock", func(cfg studio.Config) (player.Player, error) {
		if err := configutil.ValidateSettings(playerSettingsPath, cfg.Vendors.Player.Settings, configutil.Schema{
			Optional: []string{"play_ms", "error"},
		}); err != nil {
			return nil, err
		}
		var settings mockPlayerSettings
		if err := configutil.DecodeSettings(cfg.Vendors.Player.Settings, &settings); err != nil {
			return nil, err
		}
		pcfg := mock.PlayerConfig{PlayFor: time.Duration(settings.PlayMS) * time.Millisecond}
		if msg := strings.TrimSpace(settings.Error); msg != "" {
			pcfg.PlayErr = errors.New(msg)
		}
		return mock.NewPlayer(pcfg), nil
	})
}

func validPCMRate(rate int) bool {
	switch rate {
	case 0, 16000, 22050, 24000, 44100:
		return true
	default:
		return false
	}
}
