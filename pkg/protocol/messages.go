// ABOUTME: Speakwire protocol message type definitions
// ABOUTME: Defines structs for all message types and the binary chunk framing
package protocol

import (
	"encoding/binary"
	"fmt"
)

// Message is the top-level wrapper for all JSON protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// SynthesizeStart requests synthesis of one text utterance
type SynthesizeStart struct {
	SessionID string  `json:"session_id"`
	Text      string  `json:"text"`
	Voice     string  `json:"voice"`
	Speed     float64 `json:"speed"`
}

// StreamStart announces the chunk stream for a synthesis session
type StreamStart struct {
	SessionID   string `json:"session_id"`
	Codec       string `json:"codec"`
	SampleRate  int    `json:"sample_rate"`
	Channels    int    `json:"channels"`
	BitDepth    int    `json:"bit_depth"`
	TotalChunks int    `json:"total_chunks"`
}

// StreamEnd signals that every chunk of the session has been sent
type StreamEnd struct {
	SessionID   string `json:"session_id"`
	TotalChunks int    `json:"total_chunks"`
}

// StreamError reports a fatal synthesis failure
type StreamError struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Binary chunk framing:
//   [1 byte type][4 bytes BE chunk index][4 bytes BE total chunks][payload]
const (
	// AudioChunkMessageType identifies binary audio chunk frames
	AudioChunkMessageType = 0x01

	// ChunkFrameHeaderSize is the length of the binary frame header
	ChunkFrameHeaderSize = 9
)

// ChunkFrame is one decoded binary audio frame
type ChunkFrame struct {
	Index   int
	Total   int
	Payload []byte
}

// EncodeChunkFrame builds the binary wire frame for an audio chunk
func EncodeChunkFrame(index, total int, payload []byte) []byte {
	frame := make([]byte, ChunkFrameHeaderSize+len(payload))
	frame[0] = AudioChunkMessageType
	binary.BigEndian.PutUint32(frame[1:5], uint32(index))
	binary.BigEndian.PutUint32(frame[5:9], uint32(total))
	copy(frame[ChunkFrameHeaderSize:], payload)
	return frame
}

// DecodeChunkFrame parses a binary wire frame into a ChunkFrame
func DecodeChunkFrame(data []byte) (ChunkFrame, error) {
	if len(data) < ChunkFrameHeaderSize {
		return ChunkFrame{}, fmt.Errorf("binary frame too short: %d bytes", len(data))
	}
	if data[0] != AudioChunkMessageType {
		return ChunkFrame{}, fmt.Errorf("unknown binary message type: %d", data[0])
	}

	return ChunkFrame{
		Index:   int(binary.BigEndian.Uint32(data[1:5])),
		Total:   int(binary.BigEndian.Uint32(data[5:9])),
		Payload: data[ChunkFrameHeaderSize:],
	}, nil
}
