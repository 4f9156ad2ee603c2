// ABOUTME: Raw PCM chunk decoder
// ABOUTME: Decodes headerless 16-bit mono PCM to normalized float32 samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// PCMDecoder decodes headerless 16-bit signed little-endian PCM
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", format.BitDepth)
	}
	if format.Channels != 1 {
		return nil, fmt.Errorf("unsupported channel count: %d (only mono is supported)", format.Channels)
	}

	return &PCMDecoder{format: format}, nil
}

// Decode converts PCM bytes to normalized float32 samples
func (d *PCMDecoder) Decode(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("odd PCM payload length: %d bytes", len(data))
	}

	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleToFloat(sample16)
	}
	return samples, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
