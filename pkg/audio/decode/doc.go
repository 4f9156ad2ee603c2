// ABOUTME: Audio decoder package for synthesis chunk streams
// ABOUTME: Provides Decoder interface and implementations for WAV, PCM, MP3, Opus, FLAC
// Package decode provides chunk decoders for synthesis audio streams.
//
// Supports: WAV (header-bearing first chunk), raw PCM (16-bit mono),
// MP3, Opus, and FLAC.
//
// All decoders implement the Decoder interface and output normalized
// float32 mono samples in [-1.0, 1.0].
//
// Example:
//
//	stream, err := decode.NewStream(audio.SessionFormat("wav"))
//	samples, err := stream.DecodeChunk(chunkBytes, isFirst)
package decode
