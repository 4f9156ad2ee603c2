// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeMsg carries a volume change from the TUI to the player
type VolumeMsg struct {
	Volume int
	Muted  bool
}

// Controls holds channels for TUI-to-player communication
type Controls struct {
	Volume chan VolumeMsg
	Stop   chan struct{}
	Quit   chan struct{}
}

// NewControls creates a control channel set
func NewControls() *Controls {
	return &Controls{
		Volume: make(chan VolumeMsg, 10),
		Stop:   make(chan struct{}, 1),
		Quit:   make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		volume:   100,
		status:   "idle",
		controls: controls,
	}
}

// Run starts the TUI program
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
