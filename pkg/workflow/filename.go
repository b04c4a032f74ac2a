package workflow

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// Placeholder is the hint text of an untouched output-name field; it counts as blank.
	Placeholder = "e.g., my_audio.wav (leave blank for auto-name)"
	// Extension is appended to every output name.
	Extension = ".wav"
	// DefaultModelName prefixes generated output names.
	DefaultModelName = "kokoro"
)

// Namer resolves output file names. Generated names are unique for the
// lifetime of the Namer even when two calls land in the same millisecond.
type Namer struct {
	model string
	now   func() time.Time

	mu   sync.Mutex
	last int64
}

// NewNamer returns a namer for model; now defaults to time.Now.
func NewNamer(model string, now func() time.Time) *Namer {
	if strings.TrimSpace(model) == "" {
		model = DefaultModelName
	}
	if now == nil {
		now = time.Now
	}
	return &Namer{model: model, now: now}
}

// Generate returns <model>_<voice>_<epoch-ms>.wav.
func (n *Namer) Generate(voice string) string {
	n.mu.Lock()
	ms := n.now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	n.mu.Unlock()
	return fmt.Sprintf("%s_%s_%d%s", n.model, voice, ms, Extension)
}

// Resolve applies the naming rules to a user-supplied name.
func (n *Namer) Resolve(name, voice string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || name == Placeholder:
		return n.Generate(voice)
	case !strings.HasSuffix(name, Extension):
		return name + Extension
	default:
		return name
	}
}
