// ABOUTME: WebSocket client for Speakwire protocol communication
// ABOUTME: Handles connection, handshake, and message routing
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/Speakwire-Audio/speakwire-go/pkg/protocol"
	"github.com/Speakwire-Audio/speakwire-go/pkg/speakwire"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const handshakeTimeout = 5 * time.Second

// Config holds client configuration
type Config struct {
	ServerAddr string
	ClientID   string
	Name       string
	Version    int
}

// Client dials a Speakwire synthesis server and opens chunk streams.
// It implements speakwire.StreamOpener.
type Client struct {
	config Config
}

// New creates a new WebSocket client
func New(config Config) *Client {
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}
	if config.Version == 0 {
		config.Version = 1
	}
	return &Client{config: config}
}

// OpenStream connects, performs the handshake, requests synthesis, and
// returns the resulting chunk stream. One connection per session.
func (c *Client) OpenStream(ctx context.Context, req speakwire.Request) (speakwire.ChunkStream, error) {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/speakwire"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	if err := c.handshake(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	start := protocol.Message{
		Type: "synthesize/start",
		Payload: protocol.SynthesizeStart{
			SessionID: req.SessionID,
			Text:      req.Text,
			Voice:     req.Voice,
			Speed:     req.Speed,
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send synthesize/start: %w", err)
	}

	announce, err := awaitStreamStart(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	stream := &remoteStream{
		conn:   conn,
		events: make(chan streamEvent, 100),
		format: audio.Format{
			Codec:      announce.Codec,
			SampleRate: announce.SampleRate,
			Channels:   announce.Channels,
			BitDepth:   announce.BitDepth,
		},
		ctx:    streamCtx,
		cancel: cancel,
	}

	go stream.readMessages()

	return stream, nil
}

// handshake performs the protocol handshake
func (c *Client) handshake(conn *websocket.Conn) error {
	hello := protocol.Message{
		Type: "client/hello",
		Payload: protocol.ClientHello{
			ClientID: c.config.ClientID,
			Name:     c.config.Name,
			Version:  c.config.Version,
		},
	}
	if err := conn.WriteJSON(hello); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	conn.SetReadDeadline(time.Time{}) // Clear deadline

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}
	if msg.Type != "server/hello" {
		return fmt.Errorf("expected server/hello, got %s", msg.Type)
	}

	log.Printf("Handshake complete with server")
	return nil
}

// awaitStreamStart blocks until the server announces the chunk stream
func awaitStreamStart(conn *websocket.Conn) (protocol.StreamStart, error) {
	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return protocol.StreamStart{}, fmt.Errorf("failed to read stream/start: %w", err)
		}
		if messageType != websocket.TextMessage {
			return protocol.StreamStart{}, fmt.Errorf("unexpected binary message before stream/start")
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return protocol.StreamStart{}, fmt.Errorf("failed to parse message: %w", err)
		}

		switch msg.Type {
		case "stream/start":
			payloadBytes, _ := json.Marshal(msg.Payload)
			var start protocol.StreamStart
			if err := json.Unmarshal(payloadBytes, &start); err != nil {
				return protocol.StreamStart{}, fmt.Errorf("failed to parse stream/start: %w", err)
			}
			return start, nil

		case "stream/error":
			payloadBytes, _ := json.Marshal(msg.Payload)
			var serr protocol.StreamError
			json.Unmarshal(payloadBytes, &serr)
			return protocol.StreamStart{}, fmt.Errorf("synthesis rejected: %s", serr.Message)

		default:
			log.Printf("Ignoring message before stream/start: %s", msg.Type)
		}
	}
}

// streamEvent carries either one chunk or a terminal error through the
// read pump channel
type streamEvent struct {
	chunk speakwire.Chunk
	err   error
}

// remoteStream is one server-fed chunk stream. It implements
// speakwire.ChunkStream.
type remoteStream struct {
	conn   *websocket.Conn
	events chan streamEvent
	format audio.Format

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// readMessages reads and routes incoming messages until the stream ends
func (s *remoteStream) readMessages() {
	chunksSeen := 0

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.deliver(streamEvent{err: fmt.Errorf("connection lost: %w", err)})
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			frame, err := protocol.DecodeChunkFrame(data)
			if err != nil {
				log.Printf("Dropping invalid binary frame: %v", err)
				continue
			}
			s.deliver(streamEvent{chunk: speakwire.Chunk{
				Data:  frame.Payload,
				Index: frame.Index,
				Total: frame.Total,
				First: chunksSeen == 0,
			}})
			chunksSeen++

		case websocket.TextMessage:
			done, err := s.handleJSONMessage(data)
			if err != nil {
				s.deliver(streamEvent{err: err})
				return
			}
			if done {
				s.deliver(streamEvent{err: io.EOF})
				return
			}
		}
	}
}

// handleJSONMessage routes control messages. Returns done=true on
// stream/end.
func (s *remoteStream) handleJSONMessage(data []byte) (bool, error) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Failed to parse JSON message: %v", err)
		return false, nil
	}

	payloadBytes, _ := json.Marshal(msg.Payload)

	switch msg.Type {
	case "stream/end":
		var end protocol.StreamEnd
		json.Unmarshal(payloadBytes, &end)
		log.Printf("Stream complete: %d chunks", end.TotalChunks)
		return true, nil

	case "stream/error":
		var serr protocol.StreamError
		json.Unmarshal(payloadBytes, &serr)
		return false, fmt.Errorf("server reported stream failure: %s", serr.Message)

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		return false, nil
	}
}

func (s *remoteStream) deliver(ev streamEvent) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

// Next returns the next chunk, or io.EOF once the stream is exhausted
func (s *remoteStream) Next(ctx context.Context) (speakwire.Chunk, error) {
	select {
	case ev := <-s.events:
		return ev.chunk, ev.err
	case <-ctx.Done():
		return speakwire.Chunk{}, ctx.Err()
	case <-s.ctx.Done():
		return speakwire.Chunk{}, s.ctx.Err()
	}
}

// Format reports the announced stream format
func (s *remoteStream) Format() audio.Format {
	return s.format
}

// Close tears down the connection
func (s *remoteStream) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.conn.Close()
		log.Printf("Connection closed")
	})
	return nil
}
