// ABOUTME: Entry point for the Speakwire player
// ABOUTME: Parses CLI flags and runs a streaming synthesis session
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Speakwire-Audio/speakwire-go/internal/discovery"
	"github.com/Speakwire-Audio/speakwire-go/internal/ui"
	"github.com/Speakwire-Audio/speakwire-go/internal/version"
	"github.com/Speakwire-Audio/speakwire-go/pkg/audio/output"
	"github.com/Speakwire-Audio/speakwire-go/pkg/client"
	"github.com/Speakwire-Audio/speakwire-go/pkg/speakwire"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	serverAddr = flag.String("server", "", "Manual server address (skip mDNS)")
	text       = flag.String("text", "", "Text to synthesize and play")
	voice      = flag.String("voice", "aria", "Synthesis voice")
	speed      = flag.Float64("speed", 1.0, "Playback speed (0.2 to 2.0)")
	exportPath = flag.String("export", "", "Write the received audio to a WAV file after playback")
	name       = flag.String("name", "", "Client friendly name (default: hostname-speakwire-player)")
	logFile    = flag.String("log-file", "speakwire-player.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	if *text == "" {
		fmt.Fprintln(os.Stderr, "no text given: use -text \"something to say\"")
		os.Exit(1)
	}

	clientName := *name
	if clientName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		clientName = fmt.Sprintf("%s-speakwire-player", hostname)
	}

	if !useTUI {
		log.Printf("Starting %s %s (%s): %s", version.Product, version.Version, version.Manufacturer, clientName)
	}

	// TUI setup
	var tuiProg *tea.Program
	var controls *ui.Controls

	if useTUI {
		controls = ui.NewControls()
		tuiProg, err = ui.Run(controls)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	// Server discovery if no manual address given
	serverAddress := *serverAddr
	if serverAddress == "" {
		log.Printf("Starting server discovery...")
		disc := discovery.NewManager(discovery.Config{ServiceName: clientName})
		disc.Browse()

		select {
		case server := <-disc.Servers():
			serverAddress = server.Addr()
			log.Printf("Discovered server at %s", serverAddress)
		case <-time.After(10 * time.Second):
			log.Fatalf("No server found after 10 seconds")
		}
		disc.Stop()
	}

	// Track the active output so volume changes reach it
	var outMu sync.Mutex
	var currentOut *output.Oto
	volume := 100
	muted := false

	backend := client.New(client.Config{
		ServerAddr: serverAddress,
		Name:       clientName,
	})

	// Terminal statuses end the session wait below
	done := make(chan string, 1)

	ctrl := speakwire.NewController(speakwire.Config{
		Backend: backend,
		NewOutput: func() output.Output {
			o := output.NewOto()
			outMu.Lock()
			o.SetVolume(volume)
			o.SetMuted(muted)
			currentOut = o
			outMu.Unlock()
			return o
		},
		OnStatusChange: func(status string) {
			log.Printf("Status: %s", status)
			updateTUI(ui.StatusMsg{Status: status})
			switch status {
			case "complete", "stopped", "errored":
				select {
				case done <- status:
				default:
				}
			}
		},
		OnProgress: func(percent float64) {
			updateTUI(ui.StatusMsg{Progress: &percent})
		},
		OnStats: func(stats speakwire.Stats) {
			updateTUI(ui.StatusMsg{
				Received: stats.ChunksReceived,
				Played:   stats.ChunksPlayed,
				Total:    stats.TotalChunks,
			})
		},
		OnError: func(err error) {
			log.Printf("Session error: %v", err)
		},
	})

	connected := true
	updateTUI(ui.StatusMsg{
		Connected:  &connected,
		ServerName: serverAddress,
		Text:       *text,
		Voice:      *voice,
		Speed:      *speed,
	})

	if err := ctrl.Start(*text, *voice, *speed); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	// Forward TUI controls to the session
	if controls != nil {
		go func() {
			for {
				select {
				case vol := <-controls.Volume:
					outMu.Lock()
					volume = vol.Volume
					muted = vol.Muted
					if currentOut != nil {
						currentOut.SetVolume(vol.Volume)
						currentOut.SetMuted(vol.Muted)
					}
					outMu.Unlock()
				case <-controls.Stop:
					log.Printf("Stop requested from TUI")
					ctrl.Stop()
				}
			}
		}()
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var final string
	var quitChan chan struct{}
	if controls != nil {
		quitChan = controls.Quit
	}

	select {
	case final = <-done:
	case <-quitChan:
		log.Printf("Received quit signal from TUI")
		ctrl.Stop()
		final = "stopped"
	case sig := <-sigChan:
		log.Printf("Received %v signal, stopping...", sig)
		ctrl.Stop()
		final = "stopped"
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}

	if *exportPath != "" && final == "complete" {
		data, err := ctrl.ExportAudio()
		if err != nil {
			log.Printf("Export failed: %v", err)
		} else if err := os.WriteFile(*exportPath, data, 0644); err != nil {
			log.Printf("Failed to write %s: %v", *exportPath, err)
		} else {
			log.Printf("Wrote %d bytes to %s", len(data), *exportPath)
		}
	}

	stats := ctrl.Stats()
	log.Printf("Session finished (%s): received=%d played=%d",
		final, stats.ChunksReceived, stats.ChunksPlayed)
}
