// ABOUTME: WebSocket backend for the Speakwire controller
// ABOUTME: Package documentation for the protocol client
// Package client implements the Speakwire WebSocket protocol as a
// speakwire.StreamOpener. It dials a synthesis server, performs the
// hello handshake, and delivers the resulting chunk stream.
package client
