// Package logger wires the engine's structured logging.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var globalLogger *zap.Logger

// Init initializes the global logger. logLevel overrides the default "info"
// level; pass nil to use the default. Honors GO_ENV=production for format.
func Init(logLevel *string) error {
	var err error

	env := os.Getenv("GO_ENV")
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	appliedLogLevel := "info"
	if logLevel != nil {
		appliedLogLevel = *logLevel
	}

	switch appliedLogLevel {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	globalLogger, err = config.Build()
	if err != nil {
		return err
	}
	return nil
}

// Get returns the global logger, falling back to a development logger if
// Init was never called.
func Get() *zap.Logger {
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Sync flushes the logger's buffered entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// WithContext returns a logger annotated with additional fields.
func WithContext(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// WithPlayerContext returns a logger annotated with a player and day/phase.
func WithPlayerContext(playerID string, day int, phase string) *zap.Logger {
	fields := make([]zap.Field, 0, 3)
	if playerID != "" {
		fields = append(fields, zap.String("player_id", playerID))
	}
	if day > 0 {
		fields = append(fields, zap.Int("day", day))
	}
	if phase != "" {
		fields = append(fields, zap.String("phase", phase))
	}
	return Get().With(fields...)
}
