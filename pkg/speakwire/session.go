// ABOUTME: Stream controller for synthesis sessions
// ABOUTME: Drives the chunk sequence through decode, scheduling, progress, and teardown
package speakwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Speakwire-Audio/speakwire-go/internal/player"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio/decode"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio/output"
	"github.com/google/uuid"
)

// Session states
const (
	StateIdle         = "idle"
	StateInitializing = "initializing"
	StateStreaming    = "streaming"
	StateCompleting   = "completing"
)

// Recognized speed multiplier range
const (
	MinSpeed = 0.2
	MaxSpeed = 2.0
)

// Stats is a snapshot of session chunk accounting
type Stats struct {
	ChunksReceived int
	ChunksPlayed   int
	TotalChunks    int
}

// Config holds controller configuration
type Config struct {
	// Backend opens chunk streams against the synthesis service
	Backend StreamOpener

	// NewOutput creates the audio sink for each session
	// (default: output.NewOto)
	NewOutput func() output.Output

	// OnStatusChange is called on user-visible status transitions
	OnStatusChange func(status string)

	// OnProgress is called with playback progress in percent (0-100)
	OnProgress func(percent float64)

	// OnStats is called whenever chunk accounting changes
	OnStats func(Stats)

	// OnError is called for recoverable and fatal session errors
	OnError func(error)
}

// session holds the state of one streaming invocation. Exactly one
// session is active at a time; starting a new one tears down the
// previous session completely.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	stream ChunkStream
	dec    *decode.Stream
	out    output.Output
	sched  *player.Scheduler
	format audio.Format

	raw            [][]byte
	chunksReceived int
	chunksPlayed   int
	totalChunks    int

	streamDone bool
	finished   bool
	drained    chan struct{}
	release    sync.Once
}

// Controller orchestrates streaming synthesis sessions end-to-end
type Controller struct {
	config Config

	mu        sync.Mutex
	state     string
	sess      *session
	lastStats Stats
	export    []byte
}

// NewController creates a session controller
func NewController(config Config) *Controller {
	if config.NewOutput == nil {
		config.NewOutput = func() output.Output { return output.NewOto() }
	}

	return &Controller{
		config: config,
		state:  StateIdle,
	}
}

// Start begins a streaming synthesis session. Fails fast with
// ErrValidation before any resource allocation; any previously active
// session is torn down first. A zero speed means the default 1.0.
func (c *Controller) Start(text, voice string, speed float64) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty text", ErrValidation)
	}
	if speed == 0 {
		speed = 1.0
	}
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("%w: speed %.2f outside [%.1f, %.1f]", ErrValidation, speed, MinSpeed, MaxSpeed)
	}
	if c.config.Backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrValidation)
	}

	c.Stop()

	c.mu.Lock()
	c.state = StateInitializing
	c.mu.Unlock()
	c.setStatus("initializing")

	ctx, cancel := context.WithCancel(context.Background())
	req := Request{
		SessionID: uuid.New().String(),
		Text:      text,
		Voice:     voice,
		Speed:     speed,
	}

	stream, err := c.config.Backend.OpenStream(ctx, req)
	if err != nil {
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.setStatus("errored")
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}

	format := stream.Format()
	dec, err := decode.NewStream(format)
	if err != nil {
		stream.Close()
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.setStatus("errored")
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}

	out := c.config.NewOutput()
	if err := out.Open(format.SampleRate, format.Channels); err != nil {
		dec.Close()
		stream.Close()
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.setStatus("errored")
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	sess := &session{
		id:      req.SessionID,
		ctx:     ctx,
		cancel:  cancel,
		stream:  stream,
		dec:     dec,
		out:     out,
		format:  format,
		drained: make(chan struct{}, 1),
	}
	sess.sched = player.NewScheduler(out, player.Callbacks{
		OnPlayed: func(u audio.Unit) {
			c.unitPlayed(sess)
		},
		OnSkipped: func(u audio.Unit, err error) {
			c.notifyError(fmt.Errorf("%w: chunk %d: %v", ErrPlayback, u.ChunkIndex, err))
		},
		OnDrained: func() {
			c.playbackDrained(sess)
		},
	})

	c.mu.Lock()
	c.sess = sess
	c.state = StateStreaming
	c.mu.Unlock()

	log.Printf("Session %s: streaming %q (voice=%s speed=%.2f)", sess.id, text, voice, speed)
	go c.run(sess)

	return nil
}

// run is the streaming pull loop for one session
func (c *Controller) run(sess *session) {
	for {
		// Cancellation is cooperative, checked once per chunk
		if sess.ctx.Err() != nil {
			c.finish(sess, "stopped")
			return
		}

		chunk, err := sess.stream.Next(sess.ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if sess.ctx.Err() != nil {
				c.finish(sess, "stopped")
				return
			}
			ferr := fmt.Errorf("%w: %v", ErrBackend, err)
			c.notifyError(ferr)
			c.finish(sess, "errored")
			return
		}

		c.mu.Lock()
		sess.chunksReceived++
		if chunk.Total > 0 {
			sess.totalChunks = chunk.Total
		}
		sess.raw = append(sess.raw, chunk.Data)
		firstChunk := sess.chunksReceived == 1
		c.mu.Unlock()

		if firstChunk {
			c.setStatus("started streaming playback")
		}
		c.emitStats(sess)

		samples, err := sess.dec.DecodeChunk(chunk.Data, chunk.First)
		if err != nil {
			derr := fmt.Errorf("%w: chunk %d: %v", ErrDecode, chunk.Index, err)
			log.Printf("Session %s: %v (skipping chunk)", sess.id, derr)
			c.notifyError(derr)
			continue
		}

		sess.sched.Enqueue(audio.Unit{
			Samples:    samples,
			Duration:   audio.DurationOf(len(samples), sess.format.SampleRate),
			ChunkIndex: chunk.Index,
			First:      chunk.First,
		})
	}

	// Stream exhausted without cancellation
	artifact, err := buildArtifact(sess.raw, sess.format)
	if err != nil {
		log.Printf("Session %s: export assembly failed: %v", sess.id, err)
	}

	c.mu.Lock()
	if sess.finished {
		c.mu.Unlock()
		return
	}
	c.state = StateCompleting
	sess.streamDone = true
	if artifact != nil {
		c.export = artifact
	}
	c.mu.Unlock()

	c.setProgress(100)
	c.setStatus("playing audio...")

	// Wait out the scheduler before declaring the session complete
	if !sess.sched.Idle() {
		select {
		case <-sess.drained:
		case <-sess.ctx.Done():
			c.finish(sess, "stopped")
			return
		}
	}
	c.finish(sess, "complete")
}

// unitPlayed advances chunk accounting after one unit finished
func (c *Controller) unitPlayed(sess *session) {
	c.mu.Lock()
	sess.chunksPlayed++
	played := sess.chunksPlayed
	total := sess.totalChunks
	done := sess.streamDone
	c.mu.Unlock()

	if !done {
		// Displayed progress is clamped below 100 until the stream
		// is fully received
		if total < 1 {
			total = 1
		}
		pct := float64(played) / float64(total) * 100
		if pct > 99.9 {
			pct = 99.9
		}
		c.setProgress(pct)
	}
	c.emitStats(sess)
}

// playbackDrained handles the scheduler going idle. Mid-stream drains
// are ignored; once the stream is exhausted the signal lets the pull
// loop complete the session.
func (c *Controller) playbackDrained(sess *session) {
	c.mu.Lock()
	done := sess.streamDone && !sess.finished
	c.mu.Unlock()

	if done {
		select {
		case sess.drained <- struct{}{}:
		default:
		}
	}
}

// finish moves a session to its terminal status and releases its
// resources exactly once
func (c *Controller) finish(sess *session, status string) {
	c.mu.Lock()
	if sess.finished {
		c.mu.Unlock()
		return
	}
	sess.finished = true
	c.state = StateIdle
	if c.sess == sess {
		c.sess = nil
	}
	c.mu.Unlock()

	sess.release.Do(func() {
		sess.cancel()
		sess.sched.Stop()
		sess.stream.Close()
		sess.dec.Close()
		if err := sess.out.Close(); err != nil {
			log.Printf("Session %s: output close failed: %v", sess.id, err)
		}
	})

	log.Printf("Session %s: %s", sess.id, status)
	c.setStatus(status)
}

// Stop cancels the active session, tears down the audio output, and
// returns to idle. Safe to call when no session is active and safe to
// call more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	if sess == nil {
		return
	}

	sess.cancel()
	c.finish(sess, "stopped")
}

// State returns the current session state
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns a snapshot of session chunk accounting. Counters
// survive session completion until the next Start.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsLocked()
}

func (c *Controller) statsLocked() Stats {
	if c.sess == nil {
		return c.lastStats
	}
	return Stats{
		ChunksReceived: c.sess.chunksReceived,
		ChunksPlayed:   c.sess.chunksPlayed,
		TotalChunks:    c.sess.totalChunks,
	}
}

// ExportAudio returns the finished session's audio as a WAV file.
// Available once a session has streamed to completion.
func (c *Controller) ExportAudio() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.export == nil {
		return nil, fmt.Errorf("no exportable audio: no session has finished streaming")
	}

	out := make([]byte, len(c.export))
	copy(out, c.export)
	return out, nil
}

func (c *Controller) setStatus(status string) {
	if c.config.OnStatusChange != nil {
		c.config.OnStatusChange(status)
	}
}

func (c *Controller) setProgress(percent float64) {
	if c.config.OnProgress != nil {
		c.config.OnProgress(percent)
	}
}

func (c *Controller) emitStats(sess *session) {
	c.mu.Lock()
	stats := Stats{
		ChunksReceived: sess.chunksReceived,
		ChunksPlayed:   sess.chunksPlayed,
		TotalChunks:    sess.totalChunks,
	}
	c.lastStats = stats
	c.mu.Unlock()

	if c.config.OnStats != nil {
		c.config.OnStats(stats)
	}
}

// notifyError surfaces an error through the callback or the log
func (c *Controller) notifyError(err error) {
	if c.config.OnError != nil {
		c.config.OnError(err)
	} else {
		log.Printf("Session error: %v", err)
	}
}
