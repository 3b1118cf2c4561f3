package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrUnknownLevel = errors.New("unknown log level")

type LoggerOption struct {
	LogLevel    string
	Development bool
}

type Option func(o *LoggerOption)

func WithLogLevel(logLevel string) Option {
	return func(o *LoggerOption) {
		o.LogLevel = logLevel
	}
}

// WithDevelopment switches to zap's console encoder with stack traces on
// warnings.
func WithDevelopment() Option {
	return func(o *LoggerOption) {
		o.Development = true
	}
}

func NewLogger(opts ...Option) (*zap.Logger, error) {
	option := &LoggerOption{}
	for _, opt := range opts {
		opt(option)
	}

	zapConfig := zap.NewProductionConfig()
	if option.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	level, err := ParseLevel(option.LogLevel)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

// ParseLevel maps a configured level name to a zap level. An empty name is
// info.
func ParseLevel(logLevel string) (zapcore.Level, error) {
	switch strings.ToLower(logLevel) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "fatal":
		return zap.FatalLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, logLevel)
	}
}
