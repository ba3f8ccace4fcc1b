package io

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// enablePower requests the servo power-enable line as an output and drives it high.
func (io *IO) enablePower(chipName string, offset int) error {
	c, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return errors.Wrapf(err, "failed to open gpio chip %s", chipName)
	}
	l, err := c.RequestLine(offset, gpiocdev.AsOutput(1))
	if err != nil {
		_ = c.Close()
		return errors.Wrapf(err, "failed to request power line %d", offset)
	}
	io.chip = c
	io.power = l
	return nil
}

// SetPowerState sets the power-enable line high (1) or low (0). It is a no-op
// when no power line is configured.
func (io *IO) SetPowerState(state int) error {
	if io.power == nil {
		return nil
	}
	return io.power.SetValue(state)
}
