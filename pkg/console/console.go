// Package console opens the line that carries angle commands in and status
// lines out: a serial port when one is configured, stdin/stdout otherwise.
package console

import (
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

const DefaultBaud = 9600

type Config struct {
	Port string
	Baud int
	// ReadyTimeout bounds how long Open waits for the port to appear.
	// Zero waits forever.
	ReadyTimeout time.Duration
}

// Port is an open console line.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
}

// Opener opens a serial port. It is serial.Open in production.
type Opener func(name string, mode *serial.Mode) (serial.Port, error)

// Open blocks until the configured console is ready.
func Open(cfg Config, logger *zap.Logger) (Port, error) {
	return open(cfg, serial.Open, logger)
}

func open(cfg Config, opener Opener, logger *zap.Logger) (Port, error) {
	if cfg.Port == "" {
		return Stdio(), nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	var port serial.Port
	op := func() error {
		p, err := opener(cfg.Port, mode)
		if err != nil {
			logger.Debug("console not ready", zap.String("port", cfg.Port), zap.Error(err))
			return err
		}
		port = p
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = cfg.ReadyTimeout
	if err := backoff.Retry(op, b); err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", cfg.Port)
	}
	logger.Info("console ready", zap.String("port", cfg.Port), zap.Int("baud", cfg.Baud))
	return port, nil
}

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// Stdio is the console used when no serial port is configured.
func Stdio() Port {
	return stdio{Reader: os.Stdin, Writer: os.Stdout}
}
