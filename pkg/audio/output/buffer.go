// ABOUTME: In-memory audio output implementation
// ABOUTME: Collects written samples for tests and headless use
package output

import (
	"fmt"
	"sync"
)

// Buffer is an Output that collects every written sample in memory.
// Useful for tests and for rendering a session without a sound device.
type Buffer struct {
	mu      sync.Mutex
	samples []float32
	writes  int
	open    bool
}

// NewBuffer creates a new in-memory output
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Open initializes the output
func (b *Buffer) Open(sampleRate, channels int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
	return nil
}

// Write appends samples to the internal buffer
func (b *Buffer) Write(samples []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return fmt.Errorf("output not initialized")
	}
	b.samples = append(b.samples, samples...)
	b.writes++
	return nil
}

// Close releases the output
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	return nil
}

// Samples returns a copy of everything written so far
func (b *Buffer) Samples() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Writes returns the number of Write calls
func (b *Buffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}
