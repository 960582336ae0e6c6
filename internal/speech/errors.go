package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned by Speak for blank text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrRemoteDisabled means no API key is configured.
	ErrRemoteDisabled = errors.New("remote speech disabled")

	// ErrRateLimited means the local request cap refused the call.
	ErrRateLimited = errors.New("speech rate limit reached")

	// ErrNoPlayer means no player is configured, so remote speech is skipped.
	ErrNoPlayer = errors.New("no audio player configured")

	// ErrNotAudio means a successful response carried something other than
	// audio.
	ErrNotAudio = errors.New("response is not audio")

	// ErrNoSynthesizer means no local speech binary was found.
	ErrNoSynthesizer = errors.New("no local speech synthesizer found")
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}
