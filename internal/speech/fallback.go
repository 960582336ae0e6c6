package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Synthesizer speaks text locally. Speak blocks until the text has been
// spoken.
type Synthesizer interface {
	Name() string
	Speak(ctx context.Context, text string) error
}

// Fallback names accepted by DetectFallback.
const (
	FallbackAuto   = "auto"
	FallbackSay    = "say"
	FallbackEspeak = "espeak"
	FallbackNone   = "none"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CommandSynthesizer runs a local speech binary, feeding the text on stdin.
type CommandSynthesizer struct {
	path string
	args []string
}

// NewCommandSynthesizer returns a synthesizer that runs path with args.
func NewCommandSynthesizer(path string, args ...string) *CommandSynthesizer {
	return &CommandSynthesizer{path: path, args: args}
}

// Name returns the binary name.
func (s *CommandSynthesizer) Name() string {
	return s.path
}

// Speak runs the binary and waits for it to exit.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.path, s.args...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", s.path, err, msg)
		}
		return fmt.Errorf("%s failed: %w", s.path, err)
	}
	return nil
}

// LogSynthesizer writes the text to the log. It never fails.
type LogSynthesizer struct {
	logger *log.Logger
}

// NewLogSynthesizer returns a synthesizer that logs to l.
func NewLogSynthesizer(l *log.Logger) *LogSynthesizer {
	if l == nil {
		l = log.Default()
	}
	return &LogSynthesizer{logger: l}
}

// Name returns "log".
func (s *LogSynthesizer) Name() string { return "log" }

// Speak logs the text.
func (s *LogSynthesizer) Speak(_ context.Context, text string) error {
	s.logger.Info("speak", "text", text)
	return nil
}

// DetectFallback picks a local synthesizer by name. "auto" prefers say,
// then espeak-ng, then espeak, and finally the log synthesizer.
func DetectFallback(name string, logger *log.Logger) (Synthesizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FallbackAuto:
		for _, find := range []func() (Synthesizer, bool){findSay, findEspeak} {
			if s, ok := find(); ok {
				return s, nil
			}
		}
		return NewLogSynthesizer(logger), nil
	case FallbackSay:
		if s, ok := findSay(); ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: say", ErrNoSynthesizer)
	case FallbackEspeak:
		if s, ok := findEspeak(); ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: espeak-ng or espeak", ErrNoSynthesizer)
	case FallbackNone:
		return NewLogSynthesizer(logger), nil
	default:
		return nil, fmt.Errorf("unknown fallback %q (want auto, say, espeak or none)", name)
	}
}

func findSay() (Synthesizer, bool) {
	p, err := lookPath("say")
	if err != nil {
		return nil, false
	}
	return NewCommandSynthesizer(p, "-f", "-"), true
}

func findEspeak() (Synthesizer, bool) {
	for _, bin := range []string{"espeak-ng", "espeak"} {
		if p, err := lookPath(bin); err == nil {
			return NewCommandSynthesizer(p, "--stdin"), true
		}
	}
	return nil, false
}
