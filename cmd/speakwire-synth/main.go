// ABOUTME: Entry point for the Speakwire synthesis server
// ABOUTME: Parses CLI flags and starts the server application
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/internal/synth"
)

var (
	port          = flag.Int("port", 8927, "WebSocket server port")
	name          = flag.String("name", "", "Server friendly name (default: hostname-speakwire-synth)")
	logFile       = flag.String("log-file", "speakwire-synth.log", "Log file path")
	noMDNS        = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	chunkInterval = flag.Duration("chunk-interval", 40*time.Millisecond, "Pacing between chunk frames")
)

func main() {
	flag.Parse()

	// Log to both file and stdout
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	multiWriter := io.MultiWriter(os.Stdout, f)
	log.SetOutput(multiWriter)

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-speakwire-synth", hostname)
	}

	log.Printf("Starting Speakwire Synth: %s on port %d", serverName, *port)
	log.Printf("Voices: %s", strings.Join(synth.VoiceNames(), ", "))
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	srv := synth.New(synth.Config{
		Port:          *port,
		Name:          serverName,
		EnableMDNS:    !*noMDNS,
		ChunkInterval: *chunkInterval,
	})

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
