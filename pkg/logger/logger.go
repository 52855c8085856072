// Package logger holds the process-wide zap logger. Packages that log take a
// child from WithModule rather than building their own.
package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "ehome"

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Init builds the global logger. format "console" selects the human readable
// development encoder; anything else logs json. An unknown level means info.
func Init(level, format string) error {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.InitialFields = map[string]any{"service": serviceName}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	Replace(built)
	return nil
}

func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

// Replace swaps the global logger and returns a function that puts the
// previous one back. A nil logger installs a no-op logger.
func Replace(l *zap.Logger) func() {
	if l == nil {
		l = zap.NewNop()
	}
	previous := global.Swap(l)
	return func() { global.Store(previous) }
}

func Logger() *zap.Logger {
	return global.Load()
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored by callers.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child logger tagged with module.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
