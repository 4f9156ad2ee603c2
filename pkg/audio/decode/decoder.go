// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all chunk decoders
package decode

// Decoder decodes one chunk of encoded audio to normalized float32
// mono samples in [-1.0, 1.0]
type Decoder interface {
	// Decode converts encoded audio data to normalized samples
	Decode(data []byte) ([]float32, error)

	// Close releases decoder resources
	Close() error
}
