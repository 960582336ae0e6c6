package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE"`
	EnableMouse     bool

	// Deck title shown in the header
	Title string

	// Speak each question when it appears
	AutoSpeak bool

	// Initial speaking rate, zero for normal
	Speed float64

	// For debugging the UI
	GlamourEnabled bool          `env:"LINGO_ENABLE_GLAMOUR" envDefault:"true"`
	TickInterval   time.Duration `env:"LINGO_TICK_INTERVAL"  envDefault:"1s"`
}
