// ABOUTME: Opus chunk decoder
// ABOUTME: Decodes Opus packets to normalized float32 samples
package decode

import (
	"fmt"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// OpusDecoder decodes Opus audio packets
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{decoder: dec, format: format}, nil
}

// Decode converts one Opus packet to normalized float32 samples
func (d *OpusDecoder) Decode(data []byte) ([]float32, error) {
	// 5760 samples per channel is the maximum Opus frame size
	pcm16 := make([]int16, 5760*d.format.Channels)

	n, err := d.decoder.Decode(data, pcm16)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	channels := d.format.Channels
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += audio.SampleToFloat(pcm16[i*channels+ch])
		}
		samples[i] = sum / float32(channels)
	}
	return samples, nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}
