package services

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZapLogger adapts a zap SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func (z *ZapLogger) Info(msg string, keysAndValues ...interface{})  { z.sugar.Infow(msg, keysAndValues...) }
func (z *ZapLogger) Error(msg string, keysAndValues ...interface{}) { z.sugar.Errorw(msg, keysAndValues...) }
func (z *ZapLogger) Debug(msg string, keysAndValues ...interface{}) { z.sugar.Debugw(msg, keysAndValues...) }
func (z *ZapLogger) Warn(msg string, keysAndValues ...interface{})  { z.sugar.Warnw(msg, keysAndValues...) }

// Named returns a child logger tagged with the given service name.
func (z *ZapLogger) Named(service string) *ZapLogger {
	return &ZapLogger{sugar: z.sugar.Named(service)}
}

// Zap exposes the underlying logger for code that wants typed fields.
func (z *ZapLogger) Zap() *zap.Logger {
	return z.sugar.Desugar()
}

func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger builds the process logger: JSON in production, console otherwise.
func NewLogger(env, level string) (*ZapLogger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: logger.Sugar()}, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
