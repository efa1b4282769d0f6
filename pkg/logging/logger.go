// Package logging provides the structured logger used across yarrow. The
// Logger interface keeps call sites decoupled from the backing zap core and
// lets tests swap in a no-op.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a fluent structured logger. The With* methods return derived
// loggers and never mutate the receiver.
type Logger interface {
	WithContext(ctx context.Context) Logger
	WithError(err error) Logger
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapLogger struct {
	base *zap.Logger
}

// New builds a production JSON logger at the given level. Unknown level
// strings fall back to info.
func New(serviceName, level string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{base: base.With(zap.String("service", serviceName))}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{base: zap.NewNop()}
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return &zapLogger{base: l.base.With(fields...)}
}

func (l *zapLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &zapLogger{base: l.base.With(zap.Error(err))}
}

func (l *zapLogger) WithField(key string, value any) Logger {
	return &zapLogger{base: l.base.With(zap.Any(key, value))}
}

func (l *zapLogger) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	zfs := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zfs = append(zfs, zap.Any(k, v))
	}
	return &zapLogger{base: l.base.With(zfs...)}
}

func (l *zapLogger) Debug(msg string) { l.base.Debug(msg) }
func (l *zapLogger) Info(msg string)  { l.base.Info(msg) }
func (l *zapLogger) Warn(msg string)  { l.base.Warn(msg) }
func (l *zapLogger) Error(msg string) { l.base.Error(msg) }

func (l *zapLogger) Debugf(format string, args ...any) { l.base.Sugar().Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...any)  { l.base.Sugar().Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.base.Sugar().Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.base.Sugar().Errorf(format, args...) }
