package controller

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	minAngle = 0
	maxAngle = 180
)

// Actuator is the servo handle the procedures command.
type Actuator interface {
	Write(angle int) error
}

// Controller runs one of the three procedures against a single servo.
type Controller struct {
	Servo   Actuator
	Console io.Writer
	Input   *Input
	Wait    Waiter

	logger       *zap.Logger
	mode         Mode
	debug        bool
	sweep        SweepParams
	demo         DemoConfig
	pollInterval time.Duration
}

func New(cfg Configuration, servo Actuator, console io.Writer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		Servo:        servo,
		Console:      console,
		Input:        NewInput(cfg.Input.TokenTimeout),
		Wait:         Sleep,
		logger:       logger,
		mode:         cfg.Mode,
		debug:        cfg.Debug,
		sweep:        cfg.Sweep,
		demo:         cfg.Demo,
		pollInterval: cfg.Input.PollInterval,
	}
}

func (c *Controller) Mode() Mode {
	return c.mode
}

// Run repeats the selected procedure until ctx is done. Range errors have
// already been reported on the console and do not stop the loop. A failing
// servo write does.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("controller loop started", zap.Stringer("mode", c.mode))
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		err := c.Step(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case IsRangeError(err):
			c.logger.Debug("command rejected", zap.Error(err))
		default:
			return err
		}
	}
}

// Step runs one iteration of the loop body.
func (c *Controller) Step(ctx context.Context) error {
	switch c.mode {
	case FixedDemo:
		return c.FixedDemo(ctx)
	case UserInput:
		if err := c.HandleInput(ctx); err != nil {
			return err
		}
		return c.Wait.Wait(ctx, c.pollInterval)
	case Sweep:
		if err := c.Sweep(ctx, c.sweep); err != nil {
			return err
		}
		return c.Sweep(ctx, c.sweep.Reverse())
	default:
		return errors.Errorf("unknown mode %v", c.mode)
	}
}

// SetAngle validates angle and commands the servo to it.
func (c *Controller) SetAngle(angle int) error {
	if err := checkAngle("angle", angle); err != nil {
		c.report(err)
		return err
	}
	c.trace("Setting angle to %d degrees.", angle)
	return c.Servo.Write(angle)
}

// HandleInput commands the servo to every complete token received so far.
// The first out of range token ends the batch, the bytes after it wait until
// more input arrives.
func (c *Controller) HandleInput(ctx context.Context) error {
	for ctx.Err() == nil {
		tok, ok := c.Input.Next()
		if !ok {
			return nil
		}
		angle, err := parseAngle(tok)
		if err != nil {
			c.report(err)
		} else {
			err = c.SetAngle(angle)
		}
		if IsRangeError(err) {
			c.Input.Stall()
		}
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Sweep moves the servo from p.Start towards p.Stop in p.Step increments,
// waiting p.Delay after every write. The last write falls short of p.Stop
// when p.Step does not divide the range.
func (c *Controller) Sweep(ctx context.Context, p SweepParams) error {
	if err := p.validate(); err != nil {
		c.report(err)
		return err
	}
	c.trace("Sweeping angle from %d to %d degrees in increments of %d degree(s) with a %d ms step time.",
		p.Start, p.Stop, p.Step, p.Delay.Milliseconds())
	if p.Start < p.Stop {
		for angle := p.Start; angle <= p.Stop; angle += p.Step {
			if err := c.sweepStep(ctx, angle, p.Delay); err != nil {
				return err
			}
		}
		return nil
	}
	for angle := p.Start; angle >= p.Stop; angle -= p.Step {
		if err := c.sweepStep(ctx, angle, p.Delay); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) sweepStep(ctx context.Context, angle int, delay time.Duration) error {
	c.trace("Setting angle to %d degrees.", angle)
	if err := c.Servo.Write(angle); err != nil {
		return err
	}
	return c.Wait.Wait(ctx, delay)
}

// FixedDemo writes the demo angles, pausing after each.
func (c *Controller) FixedDemo(ctx context.Context) error {
	for _, angle := range c.demo.Angles {
		c.trace("Setting angle to %d degrees.", angle)
		if err := c.Servo.Write(angle); err != nil {
			return err
		}
		if err := c.Wait.Wait(ctx, c.demo.Pause); err != nil {
			return err
		}
	}
	return nil
}

func (p SweepParams) validate() error {
	if err := checkAngle("startAngle", p.Start); err != nil {
		return err
	}
	if err := checkAngle("stopAngle", p.Stop); err != nil {
		return err
	}
	span := p.Stop - p.Start
	if span < 0 {
		span = -span
	}
	if p.Step < 1 || p.Step > span {
		return newRangeError("stepAngle", p.Step)
	}
	return nil
}

func checkAngle(name string, angle int) error {
	if angle < minAngle || angle > maxAngle {
		return newRangeError(name, angle)
	}
	return nil
}

// parseAngle converts a token into an integer. A token too large for an int
// is out of range by definition and is reported with its literal text.
func parseAngle(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &RangeError{Name: "angle", Value: tok}
	}
	return v, nil
}

// report writes the console line for a range error.
func (c *Controller) report(err error) {
	var re *RangeError
	if errors.As(err, &re) {
		fmt.Fprintln(c.Console, re.Message())
	}
}

func (c *Controller) trace(format string, args ...interface{}) {
	if !c.debug {
		return
	}
	fmt.Fprintf(c.Console, format+"\n", args...)
}
