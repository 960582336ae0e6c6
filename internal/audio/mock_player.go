package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// MockPlayer implements Player for tests. It records every clip and can
// simulate playback time and failures without producing sound.
type MockPlayer struct {
	mu    sync.Mutex
	plays [][]byte
	err   error

	// Callbacks for tests
	callbacks MockCallbacks

	// delayFactor scales simulated playback time; 0 returns immediately.
	delayFactor float64

	playCount atomic.Int64
	closed    atomic.Bool
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay  func(pcm []byte)
	OnClose func()
}

// DefaultMockPlayer creates a mock player that returns immediately.
func DefaultMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// NewMockPlayer creates a new mock player with custom callbacks.
func NewMockPlayer(callbacks MockCallbacks) *MockPlayer {
	mp := DefaultMockPlayer()
	mp.callbacks = callbacks
	return mp
}

// SetError makes every following Play fail with err.
func (mp *MockPlayer) SetError(err error) {
	mp.mu.Lock()
	mp.err = err
	mp.mu.Unlock()
}

// SetDelayFactor makes Play block for the clip duration scaled by f.
func (mp *MockPlayer) SetDelayFactor(f float64) {
	mp.mu.Lock()
	mp.delayFactor = f
	mp.mu.Unlock()
}

// Play records the clip and simulates its playback time.
func (mp *MockPlayer) Play(ctx context.Context, pcm []byte) error {
	if err := ValidatePCM(pcm); err != nil {
		return err
	}
	if mp.closed.Load() {
		return ErrPlayerClosed
	}

	mp.mu.Lock()
	err := mp.err
	factor := mp.delayFactor
	onPlay := mp.callbacks.OnPlay
	mp.mu.Unlock()

	if err != nil {
		return err
	}

	clip := make([]byte, len(pcm))
	copy(clip, pcm)

	if factor > 0 {
		wait := time.Duration(float64(Duration(clip)) * factor)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	mp.mu.Lock()
	mp.plays = append(mp.plays, clip)
	mp.mu.Unlock()
	mp.playCount.Add(1)

	if onPlay != nil {
		onPlay(clip)
	}
	return nil
}

// Close marks the player closed.
func (mp *MockPlayer) Close() error {
	if mp.closed.Swap(true) {
		return errors.New("player already closed")
	}
	if mp.callbacks.OnClose != nil {
		mp.callbacks.OnClose()
	}
	return nil
}

// Plays returns copies of the clips played so far.
func (mp *MockPlayer) Plays() [][]byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	out := make([][]byte, len(mp.plays))
	copy(out, mp.plays)
	return out
}

// PlayCount returns the number of completed plays.
func (mp *MockPlayer) PlayCount() int {
	return int(mp.playCount.Load())
}
