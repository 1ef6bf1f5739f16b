// Package logging configures the process-wide zerolog logger from the
// application config.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/pawbook/go-admin-client/internal/config"
)

// New builds a logger honouring the configured level. In development the
// output is the human readable console writer, elsewhere plain JSON.
func New(cfg config.EnvConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.ErrorLevel
	}

	var logger zerolog.Logger
	if cfg.GetEnv() == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("app", cfg.GetAppName()).
		Str("version", cfg.GetAppVersion()).
		Logger()
}
