// Package audio converts between PCM representations and writes WAV files.
package audio

import (
	"encoding/binary"
	"math"
)

// DecodeS16LE converts signed 16-bit little-endian PCM into float32 samples.
// A trailing odd byte is ignored.
func DecodeS16LE(raw []byte) []float32 {
	n := len(raw) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out
}

// ToInt16 scales float samples into the 16-bit range, clipping at full scale.
func ToInt16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		switch {
		case s >= 1:
			out[i] = math.MaxInt16
		case s <= -1:
			out[i] = math.MinInt16
		default:
			out[i] = int(math.Round(float64(s) * 32767))
		}
	}
	return out
}
