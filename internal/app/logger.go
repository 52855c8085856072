package app

import (
	"strings"

	"github.com/ehomehq/ehome/pkg/logger"
)

// ConfigureLogging initialises the global logger, defaulting to info level and json output.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "json"
	}
	return logger.Init(level, format)
}
