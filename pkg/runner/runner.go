// Package runner holds process-level helpers shared by the front-ends.
package runner

import (
	"bytes"
	"io"
	"os"

	"github.com/dimiro1/banner"
)

// Version is overridden at build time with -ldflags "-X ...runner.Version=v1.2.3".
var Version = "dev"

// PrintBanner writes the startup banner to w, or stdout when w is nil.
func PrintBanner(w io.Writer, color bool) {
	if w == nil {
		w = os.Stdout
	}
	tpl := "{{ .Title \"kokoroctl\" \"\" 0 }}\nVersion: " + Version + "\n"
	banner.Init(w, true, color, bytes.NewBufferString(tpl))
}
