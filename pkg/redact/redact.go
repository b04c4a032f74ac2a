// Package redact scrubs text before it reaches log lines. Credentials in
// provider error messages are always masked; emails and phone numbers in the
// spoken text are masked only when privacy redaction is on.
package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

var enabled atomic.Bool

var (
	emailRe  = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe  = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
	secretRe = regexp.MustCompile(`(?i)\b((?:xi-)?api[_-]?key|token|authorization)(["']?\s*[:=]\s*["']?)(?:bearer\s+|token\s+)?[^\s"'&,]+`)
	bearerRe = regexp.MustCompile(`(?i)\b(bearer|token)\s+[a-z0-9._\-]{8,}`)
)

// SetEnabled toggles PII redaction.
func SetEnabled(v bool) {
	enabled.Store(v)
}

func Enabled() bool {
	return enabled.Load()
}

// Secrets masks API keys and bearer tokens regardless of the PII toggle.
func Secrets(in string) string {
	out := secretRe.ReplaceAllString(in, "${1}${2}[REDACTED]")
	return bearerRe.ReplaceAllString(out, "${1} [REDACTED]")
}

// Text masks secrets, plus emails and phone numbers when enabled.
func Text(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	out := Secrets(in)
	if !enabled.Load() {
		return out
	}
	out = emailRe.ReplaceAllString(out, "[REDACTED_EMAIL]")
	return phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
}

// Preview redacts text and cuts it to at most maxRunes runes for log lines.
func Preview(in string, maxRunes int) string {
	out := Text(in)
	if maxRunes <= 0 || utf8.RuneCountInString(out) <= maxRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:maxRunes]) + "..."
}
