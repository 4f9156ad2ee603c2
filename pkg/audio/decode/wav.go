// ABOUTME: WAV chunk decoder for header-bearing first chunks
// ABOUTME: Parses the container header and decodes the PCM payload
package decode

import (
	"fmt"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// WAVDecoder decodes a chunk carrying a WAV container header
type WAVDecoder struct {
	format audio.Format
	pcm    Decoder
}

// NewWAV creates a new WAV decoder. The declared header format must
// match the session format or decoding fails.
func NewWAV(format audio.Format) (Decoder, error) {
	pcm, err := NewPCM(format)
	if err != nil {
		return nil, err
	}

	return &WAVDecoder{format: format, pcm: pcm}, nil
}

// Decode parses the WAV header and converts the PCM payload to
// normalized float32 samples
func (d *WAVDecoder) Decode(data []byte) ([]float32, error) {
	declared, payload, err := audio.ParseWAV(data)
	if err != nil {
		return nil, err
	}

	if declared.SampleRate != d.format.SampleRate {
		return nil, fmt.Errorf("sample rate mismatch: header declares %d Hz, session is %d Hz",
			declared.SampleRate, d.format.SampleRate)
	}
	if declared.Channels != d.format.Channels {
		return nil, fmt.Errorf("channel count mismatch: header declares %d, session is %d",
			declared.Channels, d.format.Channels)
	}

	return d.pcm.Decode(payload)
}

// Close releases resources
func (d *WAVDecoder) Close() error {
	return d.pcm.Close()
}
