package io

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"
)

const (
	DriverGobot  = "gobot"
	DriverPeriph = "periph"
	DriverLog    = "log"
)

// Config selects and tunes the PWM backend and the optional power line.
type Config struct {
	Driver    string
	Bus       int
	Address   int
	Frequency float64
	PowerChip string
	PowerLine int // negative disables the power line
}

// PulseWriter emits a pulse of the given width on a PWM channel.
type PulseWriter interface {
	WritePulse(channel int, width time.Duration) error
	Close() error
}

// IO owns the PWM backend, the power line and the attached servos.
type IO struct {
	out    PulseWriter
	chip   *gpiocdev.Chip
	power  *gpiocdev.Line
	logger *zap.Logger

	mu     sync.Mutex
	servos map[int]*Servo
}

// New opens the configured PWM backend and, when a power line is set,
// drives it high so the servo rail is energised before the first pulse.
func New(cfg Config, logger *zap.Logger) (*IO, error) {
	var (
		out PulseWriter
		err error
	)
	switch cfg.Driver {
	case DriverGobot:
		out, err = NewGobotPCA9685(cfg.Bus, cfg.Address, cfg.Frequency)
	case DriverPeriph:
		out, err = NewPeriphPCA9685(strconv.Itoa(cfg.Bus), uint16(cfg.Address), cfg.Frequency)
	case DriverLog, "":
		out = NewLogWriter(logger)
	default:
		return nil, errors.Errorf("unknown pwm driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start %s pwm driver", cfg.Driver)
	}
	io := NewWithWriter(out, logger)
	if cfg.PowerLine >= 0 {
		if err := io.enablePower(cfg.PowerChip, cfg.PowerLine); err != nil {
			_ = out.Close()
			return nil, err
		}
	}
	return io, nil
}

// NewWithWriter wraps an already opened backend. No power line is managed.
func NewWithWriter(out PulseWriter, logger *zap.Logger) *IO {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IO{
		out:    out,
		logger: logger,
		servos: make(map[int]*Servo),
	}
}

// Attach binds a servo handle to a PWM channel with fixed calibration extremes.
// A channel can only be attached once.
func (io *IO) Attach(channel int, minPulse, maxPulse time.Duration) (*Servo, error) {
	if channel < 0 {
		return nil, errors.Errorf("invalid pwm channel %d", channel)
	}
	if minPulse <= 0 || maxPulse <= minPulse || maxPulse >= servoPeriod {
		return nil, errors.Errorf("invalid pulse range %v-%v", minPulse, maxPulse)
	}
	io.mu.Lock()
	defer io.mu.Unlock()
	if _, ok := io.servos[channel]; ok {
		return nil, errors.Errorf("channel %d already attached", channel)
	}
	s := &Servo{
		channel:  channel,
		minPulse: minPulse,
		maxPulse: maxPulse,
		out:      io.out,
		angle:    -1,
	}
	io.servos[channel] = s
	io.logger.Debug("servo attached",
		zap.Int("channel", channel),
		zap.Duration("min_pulse", minPulse),
		zap.Duration("max_pulse", maxPulse))
	return s, nil
}

func (io *IO) Close() error {
	err := io.out.Close()
	if io.power != nil {
		_ = io.SetPowerState(0)
		_ = io.power.Reconfigure(gpiocdev.AsInput)
		_ = io.power.Close()
	}
	if io.chip != nil {
		_ = io.chip.Close()
	}
	return errors.Wrap(err, "failed to close pwm driver")
}
