//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// pollInterval is how often Play checks whether oto has drained the clip.
const pollInterval = 20 * time.Millisecond

// oto allows a single context per process.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

func sharedContext(bufferSize time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   bufferSize,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
		log.Debug("audio: oto context ready", "sampleRate", SampleRate)
	})
	return otoContext, otoErr
}

// OtoPlayer plays clips on the default output device. Clips are played one
// at a time; concurrent Play calls wait for each other.
type OtoPlayer struct {
	context *oto.Context
	volume  float64

	playMu sync.Mutex // serializes clips
	closed atomic.Bool
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	Volume     float64       // 0.0 to 1.0
	BufferSize time.Duration // Output buffer, 0 selects the oto default
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Volume:     1.0,
		BufferSize: 0,
	}
}

// NewOtoPlayer opens the output device.
func NewOtoPlayer(config PlayerConfig) (*OtoPlayer, error) {
	if config.Volume < 0 || config.Volume > 1 {
		return nil, fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}
	ctx, err := sharedContext(config.BufferSize)
	if err != nil {
		return nil, err
	}
	return &OtoPlayer{context: ctx, volume: config.Volume}, nil
}

// Play plays pcm and returns once it has been heard.
func (p *OtoPlayer) Play(ctx context.Context, pcm []byte) error {
	if err := ValidatePCM(pcm); err != nil {
		return err
	}
	if p.closed.Load() {
		return ErrPlayerClosed
	}

	p.playMu.Lock()
	defer p.playMu.Unlock()

	// The reader owns its own copy so the caller may reuse pcm.
	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := p.context.NewPlayer(bytes.NewReader(data))
	defer func() { _ = player.Close() }()
	player.SetVolume(p.volume)
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
			if !player.IsPlaying() {
				return nil
			}
			if p.closed.Load() {
				player.Pause()
				return ErrPlayerClosed
			}
		}
	}
}

// Close stops accepting clips. The shared oto context stays alive for the
// rest of the process.
func (p *OtoPlayer) Close() error {
	p.closed.Store(true)
	return nil
}
