package audio

import (
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth  = 16
	wavFormat = 1 // PCM
)

// WAVWriter writes mono 16-bit PCM WAV files.
//
// The file is encoded into a hidden sibling, synced and renamed into place,
// so a reader that can open the final path sees a complete file.
type WAVWriter struct{}

// NewWAVWriter returns a WAV writer.
func NewWAVWriter() *WAVWriter { return &WAVWriter{} }

// Write encodes samples at sampleRate into path.
func (w *WAVWriter) Write(path string, samples []float32, sampleRate int) (err error) {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	enc := wav.NewEncoder(tmp, sampleRate, bitDepth, 1, wavFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ToInt16(samples),
		SourceBitDepth: bitDepth,
	}
	if err = enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync wav: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod wav: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename wav: %w", err)
	}
	return nil
}
