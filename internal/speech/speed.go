package speech

import (
	"errors"
	"fmt"
	"sync"
)

// Speaking rates the provider accepts.
const (
	MinSpeed     = 0.7
	MaxSpeed     = 1.2
	NormalSpeed  = 1.0
	speedEpsilon = 1e-9
)

// ErrSpeedOutOfRange is returned when a speed is outside [MinSpeed, MaxSpeed].
var ErrSpeedOutOfRange = errors.New("speed must be between 0.7 and 1.2")

// speedSteps are the rates Faster and Slower move between.
var speedSteps = []float64{0.7, 0.8, 0.9, 1.0, 1.1, 1.2}

// SpeedControl steps the speaking rate. It is safe for concurrent use.
type SpeedControl struct {
	mu      sync.RWMutex
	current float64
}

// NewSpeedControl returns a control at NormalSpeed.
func NewSpeedControl() *SpeedControl {
	return &SpeedControl{current: NormalSpeed}
}

// Speed returns the current rate.
func (s *SpeedControl) Speed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set sets the rate.
func (s *SpeedControl) Set(speed float64) error {
	if speed < MinSpeed-speedEpsilon || speed > MaxSpeed+speedEpsilon {
		return fmt.Errorf("%w: got %.2f", ErrSpeedOutOfRange, speed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = speed
	return nil
}

// Faster moves to the next step up and returns the new rate.
func (s *SpeedControl) Faster() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, step := range speedSteps {
		if step > s.current+speedEpsilon {
			s.current = step
			break
		}
	}
	return s.current
}

// Slower moves to the next step down and returns the new rate.
func (s *SpeedControl) Slower() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < s.current-speedEpsilon {
			s.current = speedSteps[i]
			break
		}
	}
	return s.current
}

// String returns the rate for display, e.g. "0.8×".
func (s *SpeedControl) String() string {
	return fmt.Sprintf("%.1f×", s.Speed())
}

func clampSpeed(speed float64) float64 {
	return max(MinSpeed, min(MaxSpeed, speed))
}
