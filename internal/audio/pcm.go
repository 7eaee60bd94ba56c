package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

const (
	// SampleRate of synthesized speech
	SampleRate = 24000

	// Channels of synthesized speech
	Channels = 1
)

// Buffer holds decoded mono PCM samples in [-1, 1]
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 || b.Channels == 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// Decode turns base64 encoded little-endian signed 16-bit PCM into a Buffer.
// A trailing odd byte is ignored.
func Decode(encoded string) (*Buffer, error) {
	encoded = strings.TrimSpace(encoded)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, fmt.Errorf("invalid audio payload: %w", err)
		}
	}
	return DecodeBytes(raw), nil
}

// DecodeBytes converts raw PCM bytes into a Buffer
func DecodeBytes(raw []byte) *Buffer {
	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / 32768.0
	}
	return &Buffer{
		SampleRate: SampleRate,
		Channels:   Channels,
		Samples:    samples,
	}
}
