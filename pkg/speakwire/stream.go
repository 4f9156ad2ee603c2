// ABOUTME: Chunk stream abstraction over the synthesis backend
// ABOUTME: Defines the pull-based, cancellable stream and its opener
package speakwire

import (
	"context"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// Request describes one synthesis invocation
type Request struct {
	SessionID string
	Text      string
	Voice     string
	Speed     float64
}

// Chunk is one raw audio chunk delivered by the backend. The first
// chunk of a session carries a container header; later chunks are
// headerless PCM.
type Chunk struct {
	Data  []byte
	Index int
	Total int
	First bool
}

// ChunkStream is a cancellable pull-based chunk sequence. Next blocks
// until a chunk arrives, the stream ends (io.EOF), the backend fails,
// or ctx is cancelled.
type ChunkStream interface {
	// Next returns the next chunk, or io.EOF at end of stream
	Next(ctx context.Context) (Chunk, error)

	// Format returns the announced session audio format
	Format() audio.Format

	// Close releases the stream
	Close() error
}

// StreamOpener opens chunk streams against a synthesis backend
type StreamOpener interface {
	OpenStream(ctx context.Context, req Request) (ChunkStream, error)
}
