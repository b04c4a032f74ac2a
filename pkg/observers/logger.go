package observers

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/harunnryd/kokoroctl/pkg/logging"
	"github.com/harunnryd/kokoroctl/pkg/metrics"
)

// LoggerObserver writes workflow events to the structured log. Timing events
// are logged at debug, failed results at warn.
type LoggerObserver struct {
	log *slog.Logger
}

func NewLoggerObserver(log *slog.Logger) *LoggerObserver {
	return &LoggerObserver{log: logging.NewComponentLogger(log, "metrics")}
}

func (o *LoggerObserver) RecordEvent(ev metrics.MetricsEvent) {
	attrs := []slog.Attr{slog.String("event", ev.Name)}
	if strings.HasSuffix(ev.Name, "_ms") {
		attrs = append(attrs, slog.Int64("ms", int64(ev.Value)))
	} else {
		attrs = append(attrs, slog.Float64("value", ev.Value))
	}
	keys := make([]string, 0, len(ev.Tags))
	for k := range ev.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, ev.Tags[k]))
	}
	for k, v := range ev.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelDebug
	if ev.Name == metrics.EventResult && ev.Value == 0 {
		level = slog.LevelWarn
	}
	o.log.LogAttrs(context.Background(), level, "workflow_metric", attrs...)
}

// MultiObserver fans an event out to every non-nil observer.
type MultiObserver struct {
	list []metrics.Observer
}

func NewMultiObserver(list ...metrics.Observer) *MultiObserver {
	return &MultiObserver{list: list}
}

func (m *MultiObserver) RecordEvent(ev metrics.MetricsEvent) {
	for _, obs := range m.list {
		if obs != nil {
			obs.RecordEvent(ev)
		}
	}
}
