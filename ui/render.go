package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/wordwrap"
	te "github.com/muesli/termenv"
)

// glamourStyle picks the renderer style. NO_COLOR forces the plain style.
func glamourStyle(style string) glamour.TermRendererOption {
	if te.EnvNoColor() {
		return glamour.WithStandardStyle(styles.NoTTYStyle)
	}
	if style == "" || style == styles.AutoStyle {
		return glamour.WithAutoStyle()
	}
	if _, ok := styles.DefaultStyles[style]; ok {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(style)
}

// renderMarkdown renders an explanation. With glamour disabled, or when
// rendering fails, the text is word-wrapped instead.
func renderMarkdown(cfg Config, markdown string, width int) (string, error) {
	width = wrapWidth(cfg, width)
	if !cfg.GlamourEnabled {
		return wordwrap.String(markdown, width), nil
	}

	r, err := glamour.NewTermRenderer(
		glamourStyle(cfg.GlamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wordwrap.String(markdown, width), fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return wordwrap.String(markdown, width), fmt.Errorf("error rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// wrapWidth bounds the terminal width by the configured maximum.
func wrapWidth(cfg Config, width int) int {
	if width <= 0 {
		width = 80
	}
	if cfg.GlamourMaxWidth > 0 {
		width = min(width, int(cfg.GlamourMaxWidth)) //nolint:gosec
	}
	return max(20, width-4)
}
