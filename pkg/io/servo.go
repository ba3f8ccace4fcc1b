package io

import (
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	MinAngle = 0
	MaxAngle = 180

	// servoPeriod is the frame length of a standard 50Hz hobby servo signal.
	servoPeriod = 20 * time.Millisecond
	// pwmResolution is the tick count of one PCA9685 period.
	pwmResolution = 4096
)

// Servo is the handle of one attached servo. The pulse extremes are fixed at
// attach time.
type Servo struct {
	channel  int
	minPulse time.Duration
	maxPulse time.Duration
	out      PulseWriter

	mu    sync.Mutex
	angle int
}

// Write commands the servo to angle degrees. Angles outside 0-180 are
// clamped, the same way hobby servo libraries treat them.
func (s *Servo) Write(angle int) error {
	if angle < MinAngle {
		angle = MinAngle
	} else if angle > MaxAngle {
		angle = MaxAngle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.out.WritePulse(s.channel, s.PulseWidth(angle)); err != nil {
		return errors.Wrapf(err, "failed to write angle %d to channel %d", angle, s.channel)
	}
	s.angle = angle
	return nil
}

// PulseWidth maps an angle linearly onto the calibrated pulse range,
// truncated to whole microseconds.
func (s *Servo) PulseWidth(angle int) time.Duration {
	minUs := s.minPulse.Microseconds()
	maxUs := s.maxPulse.Microseconds()
	us := minUs + (maxUs-minUs)*int64(angle-MinAngle)/int64(MaxAngle-MinAngle)
	return time.Duration(us) * time.Microsecond
}

// Angle returns the last commanded angle, or -1 before the first write.
func (s *Servo) Angle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

func (s *Servo) Channel() int {
	return s.channel
}

// pulseTicks converts a pulse width into PCA9685 off-ticks for the given
// frequency in Hz.
func pulseTicks(width time.Duration, frequency float64) uint16 {
	ticks := math.Round(width.Seconds() * frequency * pwmResolution)
	if ticks < 0 {
		return 0
	}
	if ticks > pwmResolution-1 {
		return pwmResolution - 1
	}
	return uint16(ticks)
}
