// ABOUTME: WAV container encoding and parsing
// ABOUTME: Handles the canonical 44-byte RIFF/WAVE header for PCM audio
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAVHeader is the canonical 44-byte WAV file header
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // bytes of PCM data
}

// WAVHeaderSize is the length of the canonical header
const WAVHeaderSize = 44

// EncodeWAV wraps raw PCM bytes in a WAV container
func EncodeWAV(pcm []byte, sampleRate, channels, bitDepth int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio data")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", bitDepth)
	}

	dataSize := uint32(len(pcm))
	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(channels) * uint32(bitDepth) / 8,
		BlockAlign:    uint16(channels) * uint16(bitDepth) / 8,
		BitsPerSample: uint16(bitDepth),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, WAVHeaderSize+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// ParseWAV validates a WAV container and returns its format and the
// raw PCM payload. Only uncompressed 16-bit PCM is accepted.
func ParseWAV(data []byte) (Format, []byte, error) {
	if len(data) < WAVHeaderSize {
		return Format{}, nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", WAVHeaderSize, len(data))
	}

	var header WAVHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return Format{}, nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return Format{}, nil, fmt.Errorf("invalid WAV data: missing RIFF header")
	}
	if string(header.Format[:]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("invalid WAV data: missing WAVE format")
	}
	if string(header.Subchunk1ID[:]) != "fmt " {
		return Format{}, nil, fmt.Errorf("invalid WAV data: missing fmt chunk")
	}
	if string(header.Subchunk2ID[:]) != "data" {
		return Format{}, nil, fmt.Errorf("invalid WAV data: missing data chunk")
	}
	if header.AudioFormat != 1 {
		return Format{}, nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return Format{}, nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", header.BitsPerSample)
	}

	payload := data[WAVHeaderSize:]
	if header.Subchunk2Size < uint32(len(payload)) {
		payload = payload[:header.Subchunk2Size]
	}

	format := Format{
		Codec:      "pcm",
		SampleRate: int(header.SampleRate),
		Channels:   int(header.NumChannels),
		BitDepth:   int(header.BitsPerSample),
	}
	return format, payload, nil
}
