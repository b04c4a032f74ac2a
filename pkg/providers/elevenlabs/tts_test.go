package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
	"github.com/harunnryd/kokoroctl/pkg/resilience"
)

func pcmChunk(values ...int16) string {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func newServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/voice-1/stream-input") || r.URL.Query().Get("output_format") != "pcm_24000" {
			http.Error(w, "bad url", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSynthesizeCollectsChunksUntilFinal(t *testing.T) {
	srv := newServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 3; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
		_ = conn.WriteJSON(map[string]any{"audio": pcmChunk(16384, -16384)})
		_ = conn.WriteJSON(map[string]any{"audio": pcmChunk(0)})
		_ = conn.WriteJSON(map[string]any{"isFinal": true})
	})

	s := New(Config{APIKey: "key", VoiceID: "voice-1", BaseURL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	out, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello", Voice: "af_bella"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if out.SampleRate != 24000 || len(out.Samples) != 3 {
		t.Fatalf("unexpected audio %+v", out)
	}
	if out.Samples[0] != 0.5 || out.Samples[1] != -0.5 {
		t.Fatalf("unexpected samples %v", out.Samples)
	}
}

func TestSynthesizeRejectsEmptyStream(t *testing.T) {
	srv := newServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 3; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
		_ = conn.WriteJSON(map[string]any{"isFinal": true})
	})

	s := New(Config{APIKey: "key", VoiceID: "voice-1", BaseURL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	_, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello"})
	if err == nil || !strings.Contains(err.Error(), "no audio") {
		t.Fatalf("expected empty audio error, got %v", err)
	}
}

func TestSynthesizeReportsServerError(t *testing.T) {
	srv := newServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
		_ = conn.WriteJSON(map[string]any{"error": "quota_exceeded", "message": "out of credits"})
	})

	s := New(Config{APIKey: "key", VoiceID: "voice-1", BaseURL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	_, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello"})
	if err == nil || !strings.Contains(err.Error(), "out of credits") {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestSynthesizeRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New(Config{APIKey: "key", VoiceID: "voice-1", BaseURL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	_, err := s.Synthesize(context.Background(), tts.Request{Text: "Hello"})
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestVoiceMap(t *testing.T) {
	s := New(Config{APIKey: "key", VoiceID: "fallback", VoiceMap: map[string]string{"af_bella": "xyz"}})
	if got := s.voiceFor("af_bella"); got != "xyz" {
		t.Fatalf("expected mapped voice, got %q", got)
	}
	if got := s.voiceFor("bm_george"); got != "fallback" {
		t.Fatalf("expected fallback voice, got %q", got)
	}
}

func TestMissingAPIKey(t *testing.T) {
	if _, err := New(Config{VoiceID: "v"}).Synthesize(context.Background(), tts.Request{Text: "hi"}); err == nil {
		t.Fatalf("expected config error")
	}
}
