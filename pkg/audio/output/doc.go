// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface, oto implementation, and in-memory sink
// Package output provides audio playback sinks.
//
// Oto plays through the system sound device via the oto library;
// Buffer collects samples in memory for tests and headless rendering.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(audio.SessionSampleRate, audio.SessionChannels)
//	err = out.Write(samples)
package output
