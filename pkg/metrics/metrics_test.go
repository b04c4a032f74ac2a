package metrics

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMillis(t *testing.T) {
	ev := Millis(EventSynthesis, 1500*time.Microsecond, map[string]string{"voice": "af_sky"})
	if ev.Value != 1.5 {
		t.Fatalf("expected 1.5ms, got %v", ev.Value)
	}
}

func TestJSONLObserverWritesLine(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLObserver(&buf).RecordEvent(MetricsEvent{
		Name:  EventResult,
		Value: 1,
		Tags:  map[string]string{"reason": "synthesis"},
	})
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if line["name"] != EventResult || line["reason"] != "synthesis" {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestOpenJSONLObserverAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "events.jsonl")
	for i := 0; i < 2; i++ {
		o, err := OpenJSONLObserver(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		o.RecordEvent(MetricsEvent{Name: EventPersist, Value: float64(i)})
		if err := o.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(raw), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestMemoryObserverNamed(t *testing.T) {
	m := NewMemoryObserver()
	m.RecordEvent(MetricsEvent{Name: EventSynthesis})
	m.RecordEvent(MetricsEvent{Name: EventResult})
	if len(m.Named(EventResult)) != 1 {
		t.Fatalf("expected one result event")
	}
}
