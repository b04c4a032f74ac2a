package studio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harunnryd/kokoroctl/pkg/adapters/player"
	"github.com/harunnryd/kokoroctl/pkg/adapters/tts"
)

type SynthesizerFactory func(cfg Config) (tts.Synthesizer, error)
type PlayerFactory func(cfg Config) (player.Player, error)

// PlayerNone disables playback; autoplay requests then fail with a playback error.
const PlayerNone = "none"

type ProviderRegistry struct {
	tts    map[string]SynthesizerFactory
	player map[string]PlayerFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		tts:    make(map[string]SynthesizerFactory),
		player: make(map[string]PlayerFactory),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *ProviderRegistry) RegisterSynthesizer(name string, factory SynthesizerFactory) {
	r.tts[normalizeName(name)] = factory
}

func (r *ProviderRegistry) RegisterPlayer(name string, factory PlayerFactory) {
	r.player[normalizeName(name)] = factory
}

func (r *ProviderRegistry) BuildSynthesizer(provider string, cfg Config) (tts.Synthesizer, error) {
	fn := r.tts[normalizeName(provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", provider)
	}
	return fn(cfg)
}

// BuildPlayer returns a nil player for an empty or "none" provider.
func (r *ProviderRegistry) BuildPlayer(provider string, cfg Config) (player.Player, error) {
	name := normalizeName(provider)
	if name == "" || name == PlayerNone {
		return nil, nil
	}
	fn := r.player[name]
	if fn == nil {
		return nil, fmt.Errorf("player provider not registered: %s", provider)
	}
	return fn(cfg)
}

// Synthesizers lists the registered synthesizer names, sorted.
func (r *ProviderRegistry) Synthesizers() []string {
	return sortedKeys(r.tts)
}

// Players lists the registered player names, sorted.
func (r *ProviderRegistry) Players() []string {
	return sortedKeys(r.player)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
