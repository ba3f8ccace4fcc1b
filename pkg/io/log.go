package io

import (
	"time"

	"go.uber.org/zap"
)

// LogWriter is a dry-run backend that only logs the pulses it is given.
type LogWriter struct {
	logger *zap.Logger
}

func NewLogWriter(logger *zap.Logger) *LogWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogWriter{logger: logger.Named("pwm")}
}

func (l *LogWriter) WritePulse(channel int, width time.Duration) error {
	l.logger.Info("pulse", zap.Int("channel", channel), zap.Duration("width", width))
	return nil
}

func (l *LogWriter) Close() error {
	return nil
}
