package io

import (
	"time"

	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"
)

// GobotPCA9685 drives a PCA9685 board through gobot on a Raspberry Pi.
type GobotPCA9685 struct {
	servos    *i2c.PCA9685Driver
	frequency float64
}

func NewGobotPCA9685(bus, address int, frequency float64) (*GobotPCA9685, error) {
	r := raspi.NewAdaptor()
	servos := i2c.NewPCA9685Driver(r, i2c.WithBus(bus), i2c.WithAddress(address))
	if err := servos.Start(); err != nil {
		return nil, err
	}
	if err := servos.SetPWMFreq(float32(frequency)); err != nil {
		_ = servos.Halt()
		return nil, err
	}
	return &GobotPCA9685{servos: servos, frequency: frequency}, nil
}

func (g *GobotPCA9685) WritePulse(channel int, width time.Duration) error {
	return g.servos.SetPWM(channel, 0, pulseTicks(width, g.frequency))
}

// Close halts the driver, which turns every channel off.
func (g *GobotPCA9685) Close() error {
	err := g.servos.Halt()
	time.Sleep(100 * time.Millisecond) // Give it time to halt
	return err
}
