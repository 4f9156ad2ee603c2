// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, decoded playback units, and sample conversion
package audio

import "time"

const (
	// Session format constants: every synthesis session streams
	// 16-bit mono PCM at 24 kHz.
	SessionSampleRate = 24000
	SessionChannels   = 1
	SessionBitDepth   = 16
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// SessionFormat returns the fixed format used for synthesis sessions
func SessionFormat(codec string) Format {
	return Format{
		Codec:      codec,
		SampleRate: SessionSampleRate,
		Channels:   SessionChannels,
		BitDepth:   SessionBitDepth,
	}
}

// Unit is one decoded, playable chunk of audio. Units are created by
// the chunk decoder, consumed exactly once by the playback scheduler,
// and never mutated after creation.
type Unit struct {
	Samples    []float32 // normalized mono samples in [-1.0, 1.0]
	Duration   time.Duration
	ChunkIndex int
	First      bool
}

// SampleToFloat converts a 16-bit PCM sample to a normalized float32
func SampleToFloat(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a normalized float32 sample to 16-bit PCM,
// clamping out-of-range input
func SampleToInt16(sample float32) int16 {
	scaled := sample * 32768.0
	if scaled > 32767.0 {
		return 32767
	}
	if scaled < -32768.0 {
		return -32768
	}
	return int16(scaled)
}

// DurationOf returns the playback duration of a sample count at a rate
func DurationOf(numSamples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(numSamples) / float64(sampleRate) * float64(time.Second))
}
