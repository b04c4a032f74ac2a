package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestDecodeS16LE(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80, 0x01}
	got := DecodeS16LE(raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0] != 0 || got[1] <= 0.99 || got[2] != -1 {
		t.Fatalf("unexpected samples %v", got)
	}
}

func TestToInt16Clips(t *testing.T) {
	got := ToInt16([]float32{2, -2, 0, 0.5})
	want := []int{32767, -32768, 0, 16384}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWAVWriterWritesReadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	samples := make([]float32, 2400)
	for i := range samples {
		samples[i] = 0.25
	}
	if err := NewWAVWriter().Write(path, samples, 24000); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("expected valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.SampleRate != 24000 || dec.BitDepth != 16 || dec.NumChans != 1 {
		t.Fatalf("unexpected format rate=%d depth=%d chans=%d", dec.SampleRate, dec.BitDepth, dec.NumChans)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(buf.Data))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be renamed away, found %d entries", len(entries))
	}
}

func TestWAVWriterRejectsBadRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := NewWAVWriter().Write(path, []float32{0}, 0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file on failure")
	}
}

func TestWAVWriterMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "clip.wav")
	if err := NewWAVWriter().Write(path, []float32{0}, 24000); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestReadWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	in := []float32{0, 0.5, -0.5, 0.25}
	if err := NewWAVWriter().Write(path, in, 22050); err != nil {
		t.Fatalf("write: %v", err)
	}
	clip, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if clip.SampleRate != 22050 || len(clip.Samples) != len(in) {
		t.Fatalf("unexpected clip rate=%d len=%d", clip.SampleRate, len(clip.Samples))
	}
	for i := range in {
		if d := clip.Samples[i] - in[i]; d > 0.001 || d < -0.001 {
			t.Fatalf("sample %d: expected %v, got %v", i, in[i], clip.Samples[i])
		}
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadWAV(path); err == nil {
		t.Fatalf("expected error for invalid file")
	}
}

func TestResample(t *testing.T) {
	in := []float32{0, 1, 0, -1}
	if got := Resample(in, 24000, 24000); len(got) != 4 {
		t.Fatalf("expected passthrough, got %v", got)
	}
	up := Resample(in, 1, 2)
	if len(up) != 8 || up[1] != 0.5 || up[2] != 1 {
		t.Fatalf("unexpected upsample %v", up)
	}
	down := Resample(in, 2, 1)
	if len(down) != 2 || down[0] != 0 || down[1] != 0 {
		t.Fatalf("unexpected downsample %v", down)
	}
}

func TestEncodeS16LE(t *testing.T) {
	raw := EncodeS16LE([]float32{0, -1})
	if len(raw) != 4 || raw[0] != 0 || raw[1] != 0 || raw[2] != 0x00 || raw[3] != 0x80 {
		t.Fatalf("unexpected bytes %v", raw)
	}
	back := DecodeS16LE(raw)
	if back[1] != -1 {
		t.Fatalf("expected -1 after round trip, got %v", back[1])
	}
}
