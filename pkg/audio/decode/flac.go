// ABOUTME: FLAC chunk decoder
// ABOUTME: Decodes self-contained FLAC streams to normalized float32 samples
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio. Each chunk must be a self-contained
// FLAC stream including the STREAMINFO block.
type FLACDecoder struct {
	format audio.Format
}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{format: format}, nil
}

// Decode converts FLAC bytes to normalized float32 samples
func (d *FLACDecoder) Decode(data []byte) ([]float32, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac stream: %w", err)
	}
	defer stream.Close()

	scale := float32(int32(1) << (stream.Info.BitsPerSample - 1))
	channels := int(stream.Info.NChannels)

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame decode failed: %w", err)
		}

		blockSize := int(frame.BlockSize)
		for i := 0; i < blockSize; i++ {
			var sum float32
			for ch := 0; ch < channels; ch++ {
				sum += float32(frame.Subframes[ch].Samples[i]) / scale
			}
			samples = append(samples, sum/float32(channels))
		}
	}
	return samples, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
