package speech

import (
	"errors"
	"math"
	"testing"
)

func TestSpeedControlSteps(t *testing.T) {
	s := NewSpeedControl()

	tests := []struct {
		name string
		step func() float64
		want float64
	}{
		{"slower", s.Slower, 0.9},
		{"slower", s.Slower, 0.8},
		{"slower", s.Slower, 0.7},
		{"slower at minimum", s.Slower, 0.7},
		{"faster", s.Faster, 0.8},
	}
	for _, tt := range tests {
		if got := tt.step(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %.2f, want %.2f", tt.name, got, tt.want)
		}
	}

	for range 10 {
		s.Faster()
	}
	if got := s.Speed(); got != MaxSpeed {
		t.Errorf("Speed() = %.2f after many Faster, want %.2f", got, MaxSpeed)
	}
	if got := s.String(); got != "1.2×" {
		t.Errorf("String() = %q, want %q", got, "1.2×")
	}
}

func TestSpeedControlSet(t *testing.T) {
	s := NewSpeedControl()

	tests := []struct {
		speed   float64
		wantErr bool
	}{
		{0.75, false},
		{1.2, false},
		{0.5, true},
		{2.0, true},
	}
	for _, tt := range tests {
		err := s.Set(tt.speed)
		if tt.wantErr {
			if !errors.Is(err, ErrSpeedOutOfRange) {
				t.Errorf("Set(%.2f) error = %v, want ErrSpeedOutOfRange", tt.speed, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Set(%.2f) error = %v", tt.speed, err)
		}
		if s.Speed() != tt.speed {
			t.Errorf("Speed() = %.2f, want %.2f", s.Speed(), tt.speed)
		}
	}

	// A set rate between steps moves to the neighbouring step.
	_ = s.Set(0.75)
	if got := s.Faster(); got != 0.8 {
		t.Errorf("Faster() from 0.75 = %.2f, want 0.8", got)
	}
}

func TestWithSpeedClamps(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		speed float64
		want  float64
	}{
		{0, NormalSpeed},
		{0.9, 0.9},
		{0.2, MinSpeed},
		{3, MaxSpeed},
	}
	for _, tt := range tests {
		if got := cfg.request("hola", WithSpeed(tt.speed)).Speed; got != tt.want {
			t.Errorf("WithSpeed(%.2f) Speed = %.2f, want %.2f", tt.speed, got, tt.want)
		}
	}
}
