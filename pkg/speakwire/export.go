// ABOUTME: Session audio export
// ABOUTME: Concatenates accumulated raw chunks into one WAV artifact
package speakwire

import (
	"bytes"
	"fmt"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// buildArtifact concatenates the accumulated raw chunks of a finished
// stream into a single well-formed WAV file. When the first chunk
// carries a WAV header its payload is extracted so the result has
// exactly one header with corrected sizes.
func buildArtifact(raw [][]byte, format audio.Format) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no audio chunks accumulated")
	}

	var pcm bytes.Buffer

	if declared, payload, err := audio.ParseWAV(raw[0]); err == nil {
		pcm.Write(payload)
		format.SampleRate = declared.SampleRate
		format.Channels = declared.Channels
	} else {
		pcm.Write(raw[0])
	}

	for _, chunk := range raw[1:] {
		pcm.Write(chunk)
	}

	return audio.EncodeWAV(pcm.Bytes(), format.SampleRate, format.Channels, 16)
}
