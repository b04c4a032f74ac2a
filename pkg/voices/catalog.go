// Package voices loads the voice catalog and maps voice ids to language tags.
package voices

import (
	"archive/zip"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// LanguageEnglish is used for the American and British voice families.
	LanguageEnglish = "en-us"
	// LanguageFallback is used for every other voice prefix.
	LanguageFallback = "ja-jp"

	// NoVoices is shown when the catalog is empty.
	NoVoices = "No voices available"

	errorPrefix = "Error loading voices: "
)

var englishPrefixes = []string{"af", "am", "bf", "bm"}

// Language derives the synthesis language tag from a voice id prefix.
func Language(voice string) string {
	for _, p := range englishPrefixes {
		if strings.HasPrefix(voice, p) {
			return LanguageEnglish
		}
	}
	return LanguageFallback
}

// Load lists the voice ids stored in a voice-data archive (.npz), in archive
// order. It never fails: on error it returns a single descriptor entry.
func Load(path string) []string {
	ids, err := ReadArchive(path)
	if err != nil {
		return []string{errorPrefix + err.Error()}
	}
	return ids
}

// ReadArchive returns the member names of an .npz archive without the .npy suffix.
func ReadArchive(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ids := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ids = append(ids, strings.TrimSuffix(f.Name, ".npy"))
	}
	return ids, nil
}

// IsError reports whether an entry is the descriptor Load returns on failure.
func IsError(entry string) bool {
	return strings.HasPrefix(entry, errorPrefix)
}

// Catalog is the ordered voice list loaded at startup.
type Catalog struct {
	ids []string
}

// NewCatalog wraps a list of ids.
func NewCatalog(ids []string) *Catalog {
	return &Catalog{ids: append([]string(nil), ids...)}
}

// IDs returns a copy of the ordered ids.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Default returns the first voice, or NoVoices when the catalog is empty.
func (c *Catalog) Default() string {
	if len(c.ids) == 0 {
		return NoVoices
	}
	return c.ids[0]
}

// Usable is false when the catalog only carries a load error.
func (c *Catalog) Usable() bool {
	return len(c.ids) > 0 && !(len(c.ids) == 1 && IsError(c.ids[0]))
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	for _, v := range c.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Complete returns the ids starting with prefix, sorted.
func (c *Catalog) Complete(prefix string) []string {
	var out []string
	for _, v := range c.ids {
		if strings.HasPrefix(v, prefix) && !IsError(v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve checks a requested voice against the catalog. An empty request
// selects the default voice.
func (c *Catalog) Resolve(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if !c.Usable() {
			return "", errors.New(c.Default())
		}
		return c.Default(), nil
	}
	if c.Usable() && !c.Contains(requested) {
		return "", fmt.Errorf("unknown voice %q", requested)
	}
	return requested, nil
}
