package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const bitsPerSample = 16

// WriteWAV encodes the buffer as a 16-bit PCM RIFF/WAVE stream
func WriteWAV(w io.Writer, buf *Buffer) error {
	dataSize := uint32(len(buf.Samples) * 2)
	blockAlign := uint16(buf.Channels * bitsPerSample / 8)
	byteRate := uint32(buf.SampleRate) * uint32(blockAlign)

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(buf.Channels),
		uint32(buf.SampleRate),
		byteRate,
		blockAlign,
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}

	pcm := make([]byte, dataSize)
	for i, s := range buf.Samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(toInt16(s)))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

func toInt16(s float32) int16 {
	v := math.Round(float64(s) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
