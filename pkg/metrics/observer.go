package metrics

import "time"

// Event names emitted by the conversion workflow.
const (
	EventSynthesis = "workflow.synthesis_ms"
	EventPersist   = "workflow.persist_ms"
	EventPlayback  = "workflow.playback_ms"
	EventResult    = "workflow.result"
)

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// Millis builds a timing event for a duration.
func Millis(name string, d time.Duration, tags map[string]string) MetricsEvent {
	return MetricsEvent{
		Name:  name,
		Time:  time.Now(),
		Value: float64(d) / float64(time.Millisecond),
		Tags:  tags,
	}
}
