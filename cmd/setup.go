package cmd

import (
	"go.uber.org/zap"

	"github.com/Seann-Moser/servoctl/pkg/console"
	"github.com/Seann-Moser/servoctl/pkg/controller"
	"github.com/Seann-Moser/servoctl/pkg/io"
)

// session is everything setup acquires for one command.
type session struct {
	ctrl *controller.Controller
	port console.Port
	hw   *io.IO
}

// setup blocks until the console is ready, starts the pwm driver and attaches
// the servo with its calibration extremes. Any failure here is fatal.
func setup() (*session, error) {
	port, err := console.Open(console.Config{
		Port:         conf.Console.Port,
		Baud:         conf.Console.Baud,
		ReadyTimeout: conf.Console.ReadyTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	hw, err := io.New(conf.IOConfig(), logger)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	servo, err := hw.Attach(conf.Servo.Channel, conf.Servo.MinPulse, conf.Servo.MaxPulse)
	if err != nil {
		_ = hw.Close()
		_ = port.Close()
		return nil, err
	}
	return &session{
		ctrl: controller.New(conf, servo, port, logger),
		port: port,
		hw:   hw,
	}, nil
}

func (s *session) Close() {
	if err := s.hw.Close(); err != nil {
		logger.Warn("failed to close pwm driver", zap.Error(err))
	}
	_ = s.port.Close()
}
