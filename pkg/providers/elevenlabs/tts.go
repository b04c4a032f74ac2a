package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/audio"
	"github.com/harunnryd/kokoroctl/pkg/resilience"
)

const defaultBaseURL = "wss://api.elevenlabs.io"

type Config struct {
	APIKey  string
	VoiceID string
	ModelID string
	// SampleRate selects the pcm_<rate> output format.
	SampleRate int
	// VoiceMap translates catalog voice ids to ElevenLabs voice ids.
	VoiceMap map[string]string
	BaseURL  string
	Timeout  time.Duration
}

// ElevenLabsTTS synthesizes a whole utterance over the stream-input websocket.
type ElevenLabsTTS struct {
	cfg    Config
	dialer websocket.Dialer
}

func New(cfg Config) *ElevenLabsTTS {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ElevenLabsTTS{
		cfg:    cfg,
		dialer: websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: 10 * time.Second},
	}
}

func (s *ElevenLabsTTS) Name() string { return "elevenlabs_tts" }

func (s *ElevenLabsTTS) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	if s.cfg.APIKey == "" {
		return tts.Audio{}, errors.New("missing elevenlabs config")
	}
	voiceID := s.voiceFor(req.Voice)
	if voiceID == "" {
		return tts.Audio{}, fmt.Errorf("no elevenlabs voice for %q", req.Voice)
	}
	u, err := s.buildURL(voiceID)
	if err != nil {
		return tts.Audio{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conn, resp, err := s.dialer.DialContext(ctx, u, http.Header{
		"xi-api-key": []string{s.cfg.APIKey},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			slog.Error("elevenlabs_rate_limited", slog.String("status", resp.Status))
			return tts.Audio{}, resilience.RateLimitFromResponse("elevenlabs", resp)
		}
		return tts.Audio{}, fmt.Errorf("elevenlabs connect: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	speed := req.Speed
	if speed <= 0 {
		speed = 1
	}
	msgs := []map[string]any{
		{
			"text": " ",
			"voice_settings": map[string]any{
				"stability":        0.5,
				"similarity_boost": 0.8,
				"speed":            speed,
			},
		},
		{"text": strings.TrimSpace(req.Text) + " ", "try_trigger_generation": true},
		{"text": ""},
	}
	for _, m := range msgs {
		if err := conn.WriteJSON(m); err != nil {
			return tts.Audio{}, s.ctxErr(ctx, fmt.Errorf("elevenlabs send: %w", err))
		}
	}

	var pcm []byte
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(pcm) > 0 {
				break
			}
			return tts.Audio{}, s.ctxErr(ctx, fmt.Errorf("elevenlabs read: %w", err))
		}
		chunk, final, err := decodeMessage(data)
		if err != nil {
			return tts.Audio{}, err
		}
		pcm = append(pcm, chunk...)
		if final {
			break
		}
	}

	if len(pcm) < 2 {
		return tts.Audio{}, errors.New("elevenlabs returned no audio")
	}
	slog.Debug("elevenlabs_synthesized",
		slog.String("voice_id", voiceID),
		slog.Int("size_bytes", len(pcm)))
	return tts.Audio{Samples: audio.DecodeS16LE(pcm), SampleRate: s.cfg.SampleRate}, nil
}

func (s *ElevenLabsTTS) voiceFor(voice string) string {
	if id, ok := s.cfg.VoiceMap[voice]; ok {
		return id
	}
	return s.cfg.VoiceID
}

func (s *ElevenLabsTTS) buildURL(voiceID string) (string, error) {
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	base.Path = "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream-input"
	q := url.Values{}
	if s.cfg.ModelID != "" {
		q.Set("model_id", s.cfg.ModelID)
	}
	q.Set("output_format", "pcm_"+strconv.Itoa(s.cfg.SampleRate))
	base.RawQuery = q.Encode()
	return base.String(), nil
}

func (s *ElevenLabsTTS) ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type message struct {
	Audio       *string `json:"audio"`
	AudioBase64 *string `json:"audio_base_64"`
	IsFinal     *bool   `json:"isFinal"`
	Error       string  `json:"error"`
	Message     string  `json:"message"`
}

func decodeMessage(data []byte) ([]byte, bool, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("elevenlabs_raw_message", "data", string(data))
		return nil, false, nil
	}
	if msg.Error != "" {
		return nil, false, fmt.Errorf("elevenlabs: %s: %s", msg.Error, msg.Message)
	}
	final := msg.IsFinal != nil && *msg.IsFinal
	encoded := msg.Audio
	if encoded == nil {
		encoded = msg.AudioBase64
	}
	if encoded == nil || *encoded == "" {
		return nil, final, nil
	}
	raw, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return nil, false, fmt.Errorf("elevenlabs audio decode: %w", err)
	}
	return raw, final, nil
}

var _ tts.Synthesizer = (*ElevenLabsTTS)(nil)
