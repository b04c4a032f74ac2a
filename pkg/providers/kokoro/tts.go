// Package kokoro talks to a Kokoro server exposing the OpenAI-compatible
// /v1/audio/speech endpoint.
package kokoro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/audio"
	"github.com/harunnryd/kokoroctl/pkg/resilience"
)

// SampleRate is the rate of the raw pcm response format.
const SampleRate = 24000

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
	LangCode       string  `json:"lang_code,omitempty"`
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8880"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "kokoro"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) Name() string { return "kokoro_tts" }

func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	body, err := json.Marshal(speechRequest{
		Model:          c.cfg.Model,
		Input:          req.Text,
		Voice:          req.Voice,
		ResponseFormat: "pcm",
		Speed:          req.Speed,
		LangCode:       langCode(req.Language),
	})
	if err != nil {
		return tts.Audio{}, fmt.Errorf("marshal speech request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return tts.Audio{}, err
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("read speech response: %w", err)
	}
	if len(pcm) < 2 {
		return tts.Audio{}, errors.New("kokoro server returned no audio")
	}
	slog.Debug("kokoro_synthesized",
		slog.String("voice", req.Voice),
		slog.Int("size_bytes", len(pcm)))
	return tts.Audio{Samples: audio.DecodeS16LE(pcm), SampleRate: SampleRate}, nil
}

// Voices lists the voice ids the server has loaded.
func (c *Client) Voices(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/audio/voices", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Voices []json.RawMessage `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode voices: %w", err)
	}
	out := make([]string, 0, len(payload.Voices))
	for _, raw := range payload.Voices {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			out = append(out, id)
			continue
		}
		var obj struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode voice entry: %w", err)
		}
		if obj.ID == "" {
			obj.ID = obj.Name
		}
		if obj.ID != "" {
			out = append(out, obj.ID)
		}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create kokoro request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kokoro request failed: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, resilience.RateLimitFromResponse("kokoro", resp)
	}
	return nil, fmt.Errorf("kokoro error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}

// langCode maps a language tag to the single-letter code Kokoro servers accept.
func langCode(lang string) string {
	switch lang {
	case "en-us":
		return "a"
	case "en-gb":
		return "b"
	case "ja-jp", "ja":
		return "j"
	default:
		return ""
	}
}

var (
	_ tts.Synthesizer = (*Client)(nil)
	_ tts.VoiceLister = (*Client)(nil)
)
