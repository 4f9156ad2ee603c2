// ABOUTME: Error taxonomy for synthesis sessions
// ABOUTME: Sentinel errors distinguishing validation, decode, backend, and playback failures
package speakwire

import "errors"

var (
	// ErrValidation marks an invalid start request, rejected before
	// any resource allocation
	ErrValidation = errors.New("validation error")

	// ErrDecode marks a malformed chunk payload; the chunk is skipped
	// and the session continues
	ErrDecode = errors.New("decode error")

	// ErrBackend marks a failure pulling chunks from the synthesis
	// backend; fatal to the session
	ErrBackend = errors.New("backend error")

	// ErrPlayback marks an audio output failure for one unit; the
	// unit is skipped and the session continues
	ErrPlayback = errors.New("playback error")
)
