package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// NewProgram returns a new Tea program running m.
func NewProgram(cfg Config, m tea.Model) *tea.Program {
	log.Debug(
		"Starting lingo",
		"glamour",
		cfg.GlamourEnabled,
		"auto speak",
		cfg.AutoSpeak,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(m, opts...)
}
