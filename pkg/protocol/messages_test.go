// ABOUTME: Tests for protocol messages
// ABOUTME: Tests JSON envelope round trips and binary chunk framing
package protocol

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestMessageEnvelope(t *testing.T) {
	msg := Message{
		Type: "synthesize/start",
		Payload: SynthesizeStart{
			SessionID: "abc",
			Text:      "hello world",
			Voice:     "aria",
			Speed:     1.25,
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Type != "synthesize/start" {
		t.Errorf("expected type synthesize/start, got %s", decoded.Type)
	}

	payloadBytes, _ := json.Marshal(decoded.Payload)
	var req SynthesizeStart
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if req.Text != "hello world" {
		t.Errorf("expected text to survive round trip, got %q", req.Text)
	}
	if req.Speed != 1.25 {
		t.Errorf("expected speed 1.25, got %f", req.Speed)
	}
}

func TestChunkFrameRoundTrip(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	data := EncodeChunkFrame(7, 42, payload)
	if len(data) != ChunkFrameHeaderSize+len(payload) {
		t.Fatalf("expected %d bytes, got %d", ChunkFrameHeaderSize+len(payload), len(data))
	}
	if data[0] != AudioChunkMessageType {
		t.Errorf("expected message type %d, got %d", AudioChunkMessageType, data[0])
	}

	frame, err := DecodeChunkFrame(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if frame.Index != 7 {
		t.Errorf("expected index 7, got %d", frame.Index)
	}
	if frame.Total != 42 {
		t.Errorf("expected total 42, got %d", frame.Total)
	}
	if !bytes.Equal(frame.Payload, payload) {
		t.Error("payload does not match")
	}
}

func TestDecodeChunkFrame_Invalid(t *testing.T) {
	if _, err := DecodeChunkFrame([]byte{0x01, 0x00}); err == nil {
		t.Error("expected error for short frame")
	}

	bad := EncodeChunkFrame(0, 1, []byte{0x00})
	bad[0] = 0x7F
	if _, err := DecodeChunkFrame(bad); err == nil {
		t.Error("expected error for unknown message type")
	}
}

func TestEncodeChunkFrame_EmptyPayload(t *testing.T) {
	frame, err := DecodeChunkFrame(EncodeChunkFrame(0, 0, nil))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(frame.Payload) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(frame.Payload))
	}
}
