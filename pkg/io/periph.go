package io

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// PeriphPCA9685 drives a PCA9685 board through periph.io.
type PeriphPCA9685 struct {
	bus       i2c.BusCloser
	dev       *pca9685.Dev
	frequency float64
}

// NewPeriphPCA9685 opens the I2C bus by name or number ("1" on most Raspberry
// Pi boards) and programs the PWM frequency.
func NewPeriphPCA9685(busName string, address uint16, frequency float64) (*PeriphPCA9685, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialise periph host")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open i2c bus %q", busName)
	}
	dev, err := pca9685.NewI2C(bus, address)
	if err != nil {
		_ = bus.Close()
		return nil, errors.Wrapf(err, "failed to open pca9685 at %#x", address)
	}
	if err := dev.SetPwmFreq(physic.Frequency(frequency * float64(physic.Hertz))); err != nil {
		_ = bus.Close()
		return nil, errors.Wrap(err, "failed to set pwm frequency")
	}
	return &PeriphPCA9685{bus: bus, dev: dev, frequency: frequency}, nil
}

func (p *PeriphPCA9685) WritePulse(channel int, width time.Duration) error {
	return p.dev.SetPwm(channel, 0, gpio.Duty(pulseTicks(width, p.frequency)))
}

func (p *PeriphPCA9685) Close() error {
	return p.bus.Close()
}
