//go:build nocgo

package audio

import (
	"context"
	"time"
)

// OtoPlayer is unavailable in builds without cgo.
type OtoPlayer struct{}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	Volume     float64
	BufferSize time.Duration
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{Volume: 1.0}
}

// NewOtoPlayer always fails without cgo; speech falls back to a local
// synthesizer.
func NewOtoPlayer(PlayerConfig) (*OtoPlayer, error) {
	return nil, ErrAudioUnavailable
}

func (p *OtoPlayer) Play(context.Context, []byte) error { return ErrAudioUnavailable }

func (p *OtoPlayer) Close() error { return nil }
