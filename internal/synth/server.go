// ABOUTME: WebSocket synthesis server for the Speakwire protocol
// ABOUTME: Manages handshakes, synthesis requests, and paced chunk streaming
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/internal/discovery"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/Speakwire-Audio/speakwire-go/pkg/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ProtocolVersion is the protocol version this server speaks
const ProtocolVersion = 1

// Config holds server configuration
type Config struct {
	Port          int
	Name          string
	EnableMDNS    bool
	ChunkInterval time.Duration // Pacing between chunk frames. Zero means 40ms.
}

// Server serves synthesis sessions over WebSocket
type Server struct {
	config   Config
	serverID string
	engine   *Engine

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	mdnsManager *discovery.Manager

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// New creates a new server instance
func New(config Config) *Server {
	if config.ChunkInterval == 0 {
		config.ChunkInterval = 40 * time.Millisecond
	}
	if config.Name == "" {
		config.Name = "Speakwire Synth"
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		engine:   NewEngine(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Non-browser clients send no Origin header
				return r.Header.Get("Origin") == ""
			},
		},
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc("/speakwire", s.handleWebSocket)
	return s
}

// Handler exposes the HTTP handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the server until Stop is called
func (s *Server) Start() error {
	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("WebSocket server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// handleWebSocket upgrades and hands off the connection
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)

	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(conn)
}

// handleConnection manages one client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	hello, err := readMessage[protocol.ClientHello](conn, "client/hello")
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		return
	}
	log.Printf("Client connected: %s (ID: %s)", hello.Name, hello.ClientID)

	err = conn.WriteJSON(protocol.Message{
		Type: "server/hello",
		Payload: protocol.ServerHello{
			ServerID: s.serverID,
			Name:     s.config.Name,
			Version:  ProtocolVersion,
		},
	})
	if err != nil {
		log.Printf("Failed to send server/hello: %v", err)
		return
	}

	// One connection can carry synthesis sessions back to back
	for {
		req, err := readMessage[protocol.SynthesizeStart](conn, "synthesize/start")
		if err != nil {
			log.Printf("Connection closed: %v", err)
			return
		}

		if err := s.streamSession(conn, req); err != nil {
			log.Printf("Session %s failed: %v", req.SessionID, err)
			return
		}
	}
}

// streamSession synthesizes one request and streams it out, paced
func (s *Server) streamSession(conn *websocket.Conn, req protocol.SynthesizeStart) error {
	voice, err := LookupVoice(req.Voice)
	if err != nil {
		return s.sendStreamError(conn, req.SessionID, err.Error())
	}

	chunks, err := s.engine.Synthesize(req.Text, voice, req.Speed)
	if err != nil {
		return s.sendStreamError(conn, req.SessionID, err.Error())
	}

	log.Printf("Session %s: streaming %d chunks (voice=%s, speed=%.2f)",
		req.SessionID, len(chunks), voice.Name, req.Speed)

	err = conn.WriteJSON(protocol.Message{
		Type: "stream/start",
		Payload: protocol.StreamStart{
			SessionID:   req.SessionID,
			Codec:       "wav",
			SampleRate:  audio.SessionSampleRate,
			Channels:    audio.SessionChannels,
			BitDepth:    audio.SessionBitDepth,
			TotalChunks: len(chunks),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send stream/start: %w", err)
	}

	ticker := time.NewTicker(s.config.ChunkInterval)
	defer ticker.Stop()

	for i, chunk := range chunks {
		frame := protocol.EncodeChunkFrame(i, len(chunks), chunk)
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return fmt.Errorf("failed to send chunk %d: %w", i, err)
		}

		select {
		case <-ticker.C:
		case <-s.stopChan:
			return fmt.Errorf("server stopping")
		}
	}

	err = conn.WriteJSON(protocol.Message{
		Type:    "stream/end",
		Payload: protocol.StreamEnd{SessionID: req.SessionID, TotalChunks: len(chunks)},
	})
	if err != nil {
		return fmt.Errorf("failed to send stream/end: %w", err)
	}

	log.Printf("Session %s: complete", req.SessionID)
	return nil
}

// sendStreamError reports a rejected request without dropping the
// connection
func (s *Server) sendStreamError(conn *websocket.Conn, sessionID, message string) error {
	return conn.WriteJSON(protocol.Message{
		Type:    "stream/error",
		Payload: protocol.StreamError{SessionID: sessionID, Message: message},
	})
}

// readMessage reads one JSON message and requires the given type
func readMessage[T any](conn *websocket.Conn, wantType string) (T, error) {
	var zero T

	_, data, err := conn.ReadMessage()
	if err != nil {
		return zero, err
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return zero, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type != wantType {
		return zero, fmt.Errorf("expected %s, got %s", wantType, msg.Type)
	}

	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var payload T
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return zero, fmt.Errorf("failed to parse %s payload: %w", wantType, err)
	}
	return payload, nil
}
