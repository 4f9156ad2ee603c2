// ABOUTME: High-level Speakwire streaming playback API
// ABOUTME: Provides the Controller for synthesize-and-play sessions
// Package speakwire provides the high-level streaming playback API.
//
// This is the main entry point for library users, providing:
//   - Controller: Run text-to-speech sessions with gapless playback
//   - StreamOpener / ChunkStream: Backend interfaces for chunk sources
//   - Sentinel errors for validation, decode, backend, and playback faults
//
// For lower-level control, see the audio, audio/decode, audio/output,
// and protocol packages.
//
// Example:
//
//	client := client.New(client.Config{ServerAddr: "localhost:8927"})
//	ctrl := speakwire.NewController(speakwire.Config{
//	    Backend: client,
//	    OnStatusChange: func(status string) { fmt.Println(status) },
//	})
//	err := ctrl.Start("Hello from Speakwire.", "aria", 1.0)
package speakwire
