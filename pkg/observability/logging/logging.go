package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// global holds the process-wide sugared logger. It always carries a usable
// logger so call sites never have to nil-check; InitLoggerFromEnv swaps it.
var global atomic.Pointer[zap.SugaredLogger]

func init() {
	logger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		// zap.NewProduction only fails on bad sink paths; fall back to a no-op
		// logger rather than crash during package init.
		logger = zap.NewNop()
	}
	global.Store(logger.Sugar())
}

// InitLoggerFromEnv builds the process logger from the environment and
// installs it globally.
//
//	LOG_LEVEL:  debug | info | warn | error   (default info)
//	LOG_FORMAT: json | console               (default json)
//
// The previous logger stays installed when initialization fails, so logging
// keeps working even if the caller ignores the error.
func InitLoggerFromEnv() (*zap.Logger, error) {
	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	global.Store(logger.Sugar())
	return logger, nil
}

func parseLevel(raw string) (zapcore.Level, error) {
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

// Debugf logs a printf-style message at debug level.
func Debugf(format string, args ...interface{}) {
	global.Load().Debugf(format, args...)
}

// Infof logs a printf-style message at info level.
func Infof(format string, args ...interface{}) {
	global.Load().Infof(format, args...)
}

// Warnf logs a printf-style message at warn level.
func Warnf(format string, args ...interface{}) {
	global.Load().Warnf(format, args...)
}

// Errorf logs a printf-style message at error level.
func Errorf(format string, args ...interface{}) {
	global.Load().Errorf(format, args...)
}

// Fatalf logs a printf-style message at fatal level and exits the process.
func Fatalf(format string, args ...interface{}) {
	global.Load().Fatalf(format, args...)
}

// LogEvent emits a structured event record with arbitrary fields, used for
// machine-scrapeable occurrences like cache hits and artifact load failures.
func LogEvent(event string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, 2*len(fields)+2)
	kv = append(kv, "event", event)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	global.Load().Infow(event, kv...)
}
