package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// Clip is a decoded mono waveform.
type Clip struct {
	Samples    []float32
	SampleRate int
}

// ReadWAV decodes a PCM WAV file, averaging multi-channel frames to mono.
func ReadWAV(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("%s: not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return Clip{}, errors.New("wav has no sample rate")
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}
	scale := float32(int64(1) << (depth - 1))
	offset := 0
	if depth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]-offset) / scale
		}
		out[i] = sum / float32(channels)
	}
	return Clip{Samples: out, SampleRate: buf.Format.SampleRate}, nil
}

// Resample converts samples between rates with linear interpolation.
func Resample(samples []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}
	n := int(int64(len(samples)) * int64(to) / int64(from))
	out := make([]float32, n)
	step := float64(from) / float64(to)
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}

// EncodeS16LE converts float samples to signed 16-bit little-endian PCM.
func EncodeS16LE(samples []float32) []byte {
	ints := ToInt16(samples)
	out := make([]byte, 2*len(ints))
	for i, v := range ints {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}
