package audio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Audio format constants for speech playback.
const (
	// SampleRate is the audio sample rate in Hz.
	SampleRate = 22050
	// Channels is the number of audio channels (1 = mono).
	Channels = 1
	// BitDepth is the bit depth per sample.
	BitDepth = 16
	// BytesPerSample is the number of bytes per sample.
	BytesPerSample = BitDepth / 8
)

var (
	ErrEmptyAudio         = errors.New("audio data is empty")
	ErrInvalidAudioFormat = errors.New("invalid audio format")
	ErrPlayerClosed       = errors.New("player is closed")
	ErrAudioUnavailable   = errors.New("audio output not available")
)

// Player plays PCM clips to completion.
type Player interface {
	// Play blocks until the clip has finished playing, playback fails or
	// ctx is done.
	Play(ctx context.Context, pcm []byte) error
	// Close releases the output device.
	Close() error
}

// ValidatePCM checks that pcm looks like a whole number of 16-bit mono
// samples.
func ValidatePCM(pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}
	if len(pcm)%(Channels*BytesPerSample) != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of samples", ErrInvalidAudioFormat, len(pcm))
	}
	return nil
}

// Duration returns the playback length of a PCM clip.
func Duration(pcm []byte) time.Duration {
	samples := len(pcm) / (Channels * BytesPerSample)
	return time.Duration(samples) * time.Second / SampleRate
}
