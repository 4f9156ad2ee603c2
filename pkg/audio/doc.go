// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Unit types, sample conversion, and the WAV container
// Package audio provides fundamental audio types and utilities for
// synthesis playback.
//
// This package defines the core types used throughout the speakwire
// library:
//   - Format: Describes an audio stream format (codec, sample rate, channels, bit depth)
//   - Unit: One decoded, playable chunk of normalized samples
//
// It also provides 16-bit PCM ↔ normalized float32 conversion and the
// canonical WAV container encoder/parser used for first chunks and
// session export.
//
// Example:
//
//	format := audio.SessionFormat("wav")
//	sample := audio.SampleToFloat(pcm16)
package audio
