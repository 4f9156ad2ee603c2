// ABOUTME: Gapless playback scheduler
// ABOUTME: Drains a FIFO queue of decoded units against the session clock
package player

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio/output"
)

// Stats tracks scheduler metrics
type Stats struct {
	Received int64
	Played   int64
	Skipped  int64
}

// Callbacks notify about playback progress. All callbacks fire from
// the drain goroutine.
type Callbacks struct {
	// OnPlayed fires after a unit's samples were handed to the output
	OnPlayed func(audio.Unit)

	// OnSkipped fires when a unit could not be written and was dropped
	OnSkipped func(audio.Unit, error)

	// OnDrained fires whenever the queue empties and playback goes idle
	OnDrained func()
}

// Scheduler plays queued units back-to-back with no gap and no
// overlap. Units play in enqueue order; the queue may refill while
// playback is active. End-of-session is decided by the caller, not by
// an empty queue.
type Scheduler struct {
	out output.Output
	cb  Callbacks

	mu      sync.Mutex
	queue   []audio.Unit
	playing bool
	next    time.Duration // next start offset on the session clock
	stats   Stats

	epoch  time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a playback scheduler. The session clock starts
// at zero when the scheduler is created.
func NewScheduler(out output.Output, cb Callbacks) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		out:    out,
		cb:     cb,
		epoch:  time.Now(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Enqueue appends a unit to the playback queue and starts the drain
// loop if playback is idle
func (s *Scheduler) Enqueue(unit audio.Unit) {
	if s.ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	s.stats.Received++
	s.queue = append(s.queue, unit)
	start := !s.playing
	if start {
		s.playing = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}
}

// drain is the sole consumer of the queue. It pops the head unit,
// waits for its start slot, writes it to the output, and advances the
// clock cursor. Exits when the queue empties; a later Enqueue restarts
// it.
func (s *Scheduler) drain() {
	for {
		if s.ctx.Err() != nil {
			s.setIdle()
			return
		}

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.playing = false
			s.mu.Unlock()
			if s.cb.OnDrained != nil {
				s.cb.OnDrained()
			}
			return
		}
		unit := s.queue[0]
		s.queue = s.queue[1:]
		start := s.next
		s.mu.Unlock()

		now := time.Since(s.epoch)
		if start < now {
			start = now
		}

		if wait := start - now; wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.ctx.Done():
				timer.Stop()
				s.setIdle()
				return
			}
		}

		if err := s.out.Write(unit.Samples); err != nil {
			s.mu.Lock()
			s.stats.Skipped++
			s.mu.Unlock()

			log.Printf("Playback write failed for chunk %d: %v", unit.ChunkIndex, err)
			if s.cb.OnSkipped != nil {
				s.cb.OnSkipped(unit, err)
			}
			continue
		}

		s.mu.Lock()
		s.next = start + unit.Duration
		s.stats.Played++
		s.mu.Unlock()

		if s.cb.OnPlayed != nil {
			s.cb.OnPlayed(unit)
		}
	}
}

func (s *Scheduler) setIdle() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

// Idle reports whether the queue is empty and no unit is playing
func (s *Scheduler) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.playing && len(s.queue) == 0
}

// NextStart returns the session-clock offset at which the next unit
// will begin. Non-decreasing within a session.
func (s *Scheduler) NextStart() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// QueueLen returns the number of units awaiting playback
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Stats returns scheduler statistics
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Stop cancels playback and clears the queue. Safe to call more than
// once.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	s.queue = nil
	s.mu.Unlock()
}
