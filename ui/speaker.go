package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/lingo/internal/speech"
)

// Speaker says text aloud. *speech.Client satisfies it.
type Speaker interface {
	Speak(ctx context.Context, text string, opts ...speech.Option) error
}

// spokeMsg is sent when a speak command finishes.
type spokeMsg struct {
	err error
}

// speakCmd runs speech off the update loop.
func speakCmd(s Speaker, text string, opts ...speech.Option) tea.Cmd {
	if s == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		err := s.Speak(context.Background(), text, opts...)
		if err != nil {
			log.Debug("speak failed", "error", err)
		}
		return spokeMsg{err: err}
	}
}

// newSpeedControl starts at the configured rate, or the normal rate when
// that is unset or out of range.
func newSpeedControl(cfg Config) *speech.SpeedControl {
	sc := speech.NewSpeedControl()
	if cfg.Speed != 0 {
		if err := sc.Set(cfg.Speed); err != nil {
			log.Debug("ignoring speech speed", "error", err)
		}
	}
	return sc
}
