package studio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KOKOROCTL_OUTPUT_DIR.
const EnvPrefix = "KOKOROCTL"

type Config struct {
	ModelName     string              `mapstructure:"model_name"`
	ModelPath     string              `mapstructure:"model_path"`
	VoicesPath    string              `mapstructure:"voices_path"`
	Output        OutputConfig        `mapstructure:"output"`
	Workflow      WorkflowConfig      `mapstructure:"workflow"`
	Vendors       VendorsConfig       `mapstructure:"vendors"`
	Resilience    ResilienceConfig    `mapstructure:"resilience"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Privacy       PrivacyConfig       `mapstructure:"privacy"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	TTS    VendorConfig `mapstructure:"tts"`
	Player VendorConfig `mapstructure:"player"`
}

type OutputConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
	// Lock takes a cross-process lock on Dir for each conversion.
	Lock bool `mapstructure:"lock"`
}

type WorkflowConfig struct {
	Speed          float64 `mapstructure:"speed"`
	ReadyTimeoutMS int     `mapstructure:"ready_timeout_ms"`
	PollIntervalMS int     `mapstructure:"poll_interval_ms"`
}

type ResilienceConfig struct {
	RateLimitThreshold int `mapstructure:"rate_limit_threshold"`
	CooldownMS         int `mapstructure:"cooldown_ms"`
}

type ObservabilityConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error; environment variables prefixed with EnvPrefix override both.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("model_name", "kokoro")
	v.SetDefault("model_path", "kokoro-v1.0.onnx")
	v.SetDefault("voices_path", "voices-v1.0.bin")
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.retention_days", 0)
	v.SetDefault("output.lock", true)
	v.SetDefault("workflow.speed", 1.0)
	v.SetDefault("workflow.ready_timeout_ms", 2000)
	v.SetDefault("workflow.poll_interval_ms", 100)
	v.SetDefault("vendors.tts.provider", "kokoro")
	v.SetDefault("vendors.player.provider", "speaker")
	v.SetDefault("resilience.rate_limit_threshold", 3)
	v.SetDefault("resilience.cooldown_ms", 30000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("observability.metrics_path", "")
	v.SetDefault("privacy.redact_pii", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if c.Workflow.Speed <= 0 {
		return fmt.Errorf("workflow.speed must be positive, got %v", c.Workflow.Speed)
	}
	if c.Workflow.ReadyTimeoutMS < 0 || c.Workflow.PollIntervalMS < 0 {
		return fmt.Errorf("workflow timings must not be negative")
	}
	if c.Output.RetentionDays < 0 {
		return fmt.Errorf("output.retention_days must not be negative")
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.Player.Settings = expandSettings(cfg.Vendors.Player.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = expandAny(v)
		}
		return out
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	}
}
