// ABOUTME: Stream decoder for heterogeneous chunk sequences
// ABOUTME: Routes the header-bearing first chunk and headerless rest to codec decoders
package decode

import (
	"fmt"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// Stream decodes the chunk sequence of one synthesis session. In the
// default wav codec the first chunk carries a WAV container header and
// every later chunk is headerless raw PCM; for the other codecs every
// chunk goes through the same decoder.
type Stream struct {
	first Decoder
	rest  Decoder
}

// NewStream creates a stream decoder for the given session format
func NewStream(format audio.Format) (*Stream, error) {
	switch format.Codec {
	case "wav":
		first, err := NewWAV(format)
		if err != nil {
			return nil, err
		}
		rest, err := NewPCM(format)
		if err != nil {
			return nil, err
		}
		return &Stream{first: first, rest: rest}, nil

	case "pcm":
		dec, err := NewPCM(format)
		if err != nil {
			return nil, err
		}
		return &Stream{first: dec, rest: dec}, nil

	case "mp3":
		dec, err := NewMP3(format)
		if err != nil {
			return nil, err
		}
		return &Stream{first: dec, rest: dec}, nil

	case "opus":
		dec, err := NewOpus(format)
		if err != nil {
			return nil, err
		}
		return &Stream{first: dec, rest: dec}, nil

	case "flac":
		dec, err := NewFLAC(format)
		if err != nil {
			return nil, err
		}
		return &Stream{first: dec, rest: dec}, nil

	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}

// DecodeChunk decodes one raw chunk into normalized samples
func (s *Stream) DecodeChunk(data []byte, first bool) ([]float32, error) {
	if first {
		return s.first.Decode(data)
	}
	return s.rest.Decode(data)
}

// Close releases decoder resources
func (s *Stream) Close() error {
	err := s.first.Close()
	if s.rest != s.first {
		if rerr := s.rest.Close(); err == nil {
			err = rerr
		}
	}
	return err
}
