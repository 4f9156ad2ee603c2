// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Connection
	connected  bool
	serverName string

	// Session
	text     string
	voice    string
	speed    float64
	status   string
	progress float64

	// Stream
	codec      string
	sampleRate int
	channels   int

	// Playback controls
	volume int
	muted  bool

	// Stats
	received int
	played   int
	total    int

	// Control channels back to the player
	controls *Controls

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSession()
	s += m.renderControls()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders connection status
func (m Model) renderHeader() string {
	connStatus := "Disconnected"
	if m.connected {
		connStatus = fmt.Sprintf("Connected to %s", m.serverName)
	}

	return fmt.Sprintf(`┌─ Speakwire Player ───────────────────────────────────┐
│ Server: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(connStatus, 45))
}

// renderSession renders the current synthesis session
func (m Model) renderSession() string {
	if m.text == "" {
		return "│ No session                                           │\n"
	}

	s := fmt.Sprintf("│ Text:   %-45s │\n", truncate(m.text, 45))
	s += fmt.Sprintf("│ Voice:  %-15s Speed: %.2fx%-16s │\n", m.voice, m.speed, "")
	s += fmt.Sprintf("│ Status: %-45s │\n", truncate(m.status, 45))

	progressBar := renderBar(int(m.progress), 100, 30)
	s += fmt.Sprintf("│ [%s] %5.1f%%%-9s │\n", progressBar, m.progress, "")

	if m.codec != "" {
		s += fmt.Sprintf("│ Format: %s %dHz %s%-29s │\n",
			m.codec, m.sampleRate, channelName(m.channels), "")
	}

	return s
}

// renderControls renders volume status
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " (muted)"
	}

	volumeBar := renderBar(m.volume, 100, 10)

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %d%%%s%-20s │\n",
		volumeBar, m.volume, muteIcon, "")
}

// renderStats renders chunk statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Chunks:  RX: %d  Played: %d  Total: %d%-12s │
`, m.received, m.played, m.total, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  s:Stop  q:Quit                 │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.signalQuit()
		return m, tea.Quit
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.signalVolume()
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.signalVolume()
	case "m":
		m.muted = !m.muted
		m.signalVolume()
	case "s":
		m.signalStop()
	}

	return m, nil
}

func (m Model) signalVolume() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Volume <- VolumeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

func (m Model) signalStop() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Stop <- struct{}{}:
	default:
	}
}

func (m Model) signalQuit() {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Quit <- struct{}{}:
	default:
	}
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
	}
	if msg.ServerName != "" {
		m.serverName = msg.ServerName
	}
	if msg.Text != "" {
		m.text = msg.Text
		m.voice = msg.Voice
		m.speed = msg.Speed
	}
	if msg.Status != "" {
		m.status = msg.Status
	}
	if msg.Progress != nil {
		m.progress = *msg.Progress
	}
	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.Received != 0 || msg.Played != 0 {
		m.received = msg.Received
		m.played = msg.Played
		m.total = msg.Total
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Connected  *bool
	ServerName string
	Text       string
	Voice      string
	Speed      float64
	Status     string
	Progress   *float64
	Codec      string
	SampleRate int
	Channels   int
	Received   int
	Played     int
	Total      int
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
