// ABOUTME: Tests for WAV container encoding and parsing
// ABOUTME: Tests header layout, validation, and payload round trips
package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func pcmBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestEncodeWAV(t *testing.T) {
	pcm := pcmBytes([]int16{100, -100, 200, -200})

	data, err := EncodeWAV(pcm, SessionSampleRate, 1, 16)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if len(data) != WAVHeaderSize+len(pcm) {
		t.Errorf("expected %d bytes, got %d", WAVHeaderSize+len(pcm), len(data))
	}
	if string(data[0:4]) != "RIFF" {
		t.Error("missing RIFF magic")
	}
	if string(data[8:12]) != "WAVE" {
		t.Error("missing WAVE magic")
	}

	rate := binary.LittleEndian.Uint32(data[24:28])
	if rate != SessionSampleRate {
		t.Errorf("expected sample rate %d, got %d", SessionSampleRate, rate)
	}

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	if int(dataSize) != len(pcm) {
		t.Errorf("expected data size %d, got %d", len(pcm), dataSize)
	}
}

func TestEncodeWAV_Invalid(t *testing.T) {
	if _, err := EncodeWAV(nil, SessionSampleRate, 1, 16); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := EncodeWAV([]byte{0, 0}, 0, 1, 16); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := EncodeWAV([]byte{0, 0, 0}, SessionSampleRate, 1, 24); err == nil {
		t.Error("expected error for unsupported bit depth")
	}
}

func TestParseWAVRoundTrip(t *testing.T) {
	pcm := pcmBytes([]int16{1, 2, 3, -1, -2, -3})

	data, err := EncodeWAV(pcm, SessionSampleRate, 1, 16)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	format, payload, err := ParseWAV(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if format.SampleRate != SessionSampleRate {
		t.Errorf("expected rate %d, got %d", SessionSampleRate, format.SampleRate)
	}
	if format.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", format.Channels)
	}
	if format.BitDepth != 16 {
		t.Errorf("expected 16-bit, got %d", format.BitDepth)
	}
	if !bytes.Equal(payload, pcm) {
		t.Error("payload does not match encoded PCM")
	}
}

func TestParseWAV_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{'R', 'I', 'F', 'F'}},
		{"bad magic", bytes.Repeat([]byte{0xFF}, WAVHeaderSize)},
	}

	for _, tt := range tests {
		if _, _, err := ParseWAV(tt.data); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseWAV_RejectsNonPCM(t *testing.T) {
	pcm := pcmBytes([]int16{1, 2, 3, 4})
	data, err := EncodeWAV(pcm, SessionSampleRate, 1, 16)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Flip the audio format field to a compressed format code
	binary.LittleEndian.PutUint16(data[20:22], 7)

	if _, _, err := ParseWAV(data); err == nil {
		t.Error("expected error for non-PCM format")
	}
}
