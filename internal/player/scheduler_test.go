// ABOUTME: Tests for the gapless playback scheduler
// ABOUTME: Tests ordering, clock monotonicity, refill, skip-on-error, and stop
package player

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio/output"
)

func unitOf(index, numSamples int) audio.Unit {
	return audio.Unit{
		Samples:    make([]float32, numSamples),
		Duration:   audio.DurationOf(numSamples, audio.SessionSampleRate),
		ChunkIndex: index,
		First:      index == 0,
	}
}

func newTestSink(t *testing.T) *output.Buffer {
	t.Helper()
	sink := output.NewBuffer()
	if err := sink.Open(audio.SessionSampleRate, audio.SessionChannels); err != nil {
		t.Fatalf("failed to open sink: %v", err)
	}
	return sink
}

func TestSchedulerPlaysInOrder(t *testing.T) {
	sink := newTestSink(t)

	var mu sync.Mutex
	var played []int
	done := make(chan struct{}, 4)

	s := NewScheduler(sink, Callbacks{
		OnPlayed: func(u audio.Unit) {
			mu.Lock()
			played = append(played, u.ChunkIndex)
			mu.Unlock()
		},
		OnDrained: func() { done <- struct{}{} },
	})
	defer s.Stop()

	for i := 0; i < 3; i++ {
		s.Enqueue(unitOf(i, 48)) // 2ms each
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue to drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(played) != 3 {
		t.Fatalf("expected 3 played units, got %d", len(played))
	}
	for i, idx := range played {
		if idx != i {
			t.Errorf("expected chunk %d at position %d, got %d", i, i, idx)
		}
	}

	if len(sink.Samples()) != 3*48 {
		t.Errorf("expected %d samples written, got %d", 3*48, len(sink.Samples()))
	}
}

func TestSchedulerNextStartMonotonic(t *testing.T) {
	sink := newTestSink(t)

	var mu sync.Mutex
	var starts []time.Duration
	done := make(chan struct{}, 8)

	var s *Scheduler
	s = NewScheduler(sink, Callbacks{
		OnPlayed: func(u audio.Unit) {
			mu.Lock()
			starts = append(starts, s.NextStart())
			mu.Unlock()
		},
		OnDrained: func() { done <- struct{}{} },
	})
	defer s.Stop()

	for i := 0; i < 5; i++ {
		s.Enqueue(unitOf(i, 24)) // 1ms each
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue to drain")
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			t.Errorf("NextStart decreased: %v -> %v", starts[i-1], starts[i])
		}
	}
}

func TestSchedulerRefillAfterDrain(t *testing.T) {
	sink := newTestSink(t)

	drained := make(chan struct{}, 4)
	played := make(chan int, 4)

	s := NewScheduler(sink, Callbacks{
		OnPlayed:  func(u audio.Unit) { played <- u.ChunkIndex },
		OnDrained: func() { drained <- struct{}{} },
	})
	defer s.Stop()

	s.Enqueue(unitOf(0, 24))

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first drain")
	}
	<-played

	// The stream is still arriving: a later enqueue must restart playback
	s.Enqueue(unitOf(1, 24))

	select {
	case idx := <-played:
		if idx != 1 {
			t.Errorf("expected chunk 1 after refill, got %d", idx)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not resume after refill")
	}
}

// failingSink fails a fixed set of writes by write ordinal.
type failingSink struct {
	mu     sync.Mutex
	writes int
	fail   map[int]bool
	wrote  []int // sample counts of successful writes
}

func (f *failingSink) Open(sampleRate, channels int) error { return nil }

func (f *failingSink) Write(samples []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.fail[f.writes] {
		return fmt.Errorf("device gone")
	}
	f.wrote = append(f.wrote, len(samples))
	return nil
}

func (f *failingSink) Close() error { return nil }

func TestSchedulerSkipsFailedUnit(t *testing.T) {
	sink := &failingSink{fail: map[int]bool{2: true}}

	var mu sync.Mutex
	var played, skipped []int
	done := make(chan struct{}, 4)

	s := NewScheduler(sink, Callbacks{
		OnPlayed: func(u audio.Unit) {
			mu.Lock()
			played = append(played, u.ChunkIndex)
			mu.Unlock()
		},
		OnSkipped: func(u audio.Unit, err error) {
			mu.Lock()
			skipped = append(skipped, u.ChunkIndex)
			mu.Unlock()
		},
		OnDrained: func() { done <- struct{}{} },
	})
	defer s.Stop()

	for i := 0; i < 3; i++ {
		s.Enqueue(unitOf(i, 24))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue to drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(played) != 2 || played[0] != 0 || played[1] != 2 {
		t.Errorf("expected chunks 0 and 2 played, got %v", played)
	}
	if len(skipped) != 1 || skipped[0] != 1 {
		t.Errorf("expected chunk 1 skipped, got %v", skipped)
	}

	stats := s.Stats()
	if stats.Received != 3 || stats.Played != 2 || stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSchedulerStopClearsQueue(t *testing.T) {
	sink := newTestSink(t)

	s := NewScheduler(sink, Callbacks{})
	for i := 0; i < 10; i++ {
		s.Enqueue(unitOf(i, 24000)) // 1s each, far more than the test runs
	}

	s.Stop()
	s.Stop() // idempotent

	if s.QueueLen() != 0 {
		t.Errorf("expected empty queue after Stop, got %d", s.QueueLen())
	}

	// Enqueue after Stop is a no-op
	s.Enqueue(unitOf(99, 24))
	if s.QueueLen() != 0 {
		t.Error("expected enqueue after Stop to be dropped")
	}
}

func TestSchedulerPlayedNeverExceedsReceived(t *testing.T) {
	sink := newTestSink(t)

	done := make(chan struct{}, 4)
	s := NewScheduler(sink, Callbacks{
		OnDrained: func() { done <- struct{}{} },
	})
	defer s.Stop()

	for i := 0; i < 4; i++ {
		s.Enqueue(unitOf(i, 24))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue to drain")
	}

	stats := s.Stats()
	if stats.Played > stats.Received {
		t.Errorf("played %d exceeds received %d", stats.Played, stats.Received)
	}
	if stats.Played != 4 {
		t.Errorf("expected 4 played, got %d", stats.Played)
	}
}
