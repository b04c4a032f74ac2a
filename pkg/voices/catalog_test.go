package voices

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeNPZ(t *testing.T, names ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voices-v1.0.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, n := range names {
		w, err := zw.Create(n + ".npy")
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte("\x93NUMPY")); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func TestLanguage(t *testing.T) {
	for _, v := range []string{"af_bella", "am_adam", "bf_emma", "bm_george", "af"} {
		if got := Language(v); got != LanguageEnglish {
			t.Fatalf("%s: expected %s, got %s", v, LanguageEnglish, got)
		}
	}
	for _, v := range []string{"jf_alpha", "zf_xiaobei", "ef_dora", "a", ""} {
		if got := Language(v); got != LanguageFallback {
			t.Fatalf("%s: expected %s, got %s", v, LanguageFallback, got)
		}
	}
}

func TestLoadKeepsArchiveOrder(t *testing.T) {
	path := writeNPZ(t, "af_sky", "af_bella", "jf_alpha")
	got := Load(path)
	want := []string{"af_sky", "af_bella", "jf_alpha"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadReturnsDescriptorOnError(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "missing.bin"))
	if len(got) != 1 || !IsError(got[0]) {
		t.Fatalf("expected single error descriptor, got %v", got)
	}
	cat := NewCatalog(got)
	if cat.Usable() {
		t.Fatalf("expected unusable catalog")
	}
	if _, err := cat.Resolve(""); err == nil {
		t.Fatalf("expected resolve error for unusable catalog")
	}
}

func TestCatalogResolveAndComplete(t *testing.T) {
	cat := NewCatalog([]string{"af_sky", "bm_lewis", "af_bella"})
	if cat.Default() != "af_sky" {
		t.Fatalf("expected first voice as default")
	}
	v, err := cat.Resolve("")
	if err != nil || v != "af_sky" {
		t.Fatalf("expected default voice, got %q %v", v, err)
	}
	if _, err := cat.Resolve("zz_nobody"); err == nil {
		t.Fatalf("expected unknown voice error")
	}
	got := cat.Complete("af")
	if strings.Join(got, ",") != "af_bella,af_sky" {
		t.Fatalf("unexpected completion %v", got)
	}
	if NewCatalog(nil).Default() != NoVoices {
		t.Fatalf("expected placeholder for empty catalog")
	}
}
