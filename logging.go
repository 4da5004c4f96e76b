// FILE: logging.go
// Package main – Logger construction.
//
// Components never reach for a package-global logger; main builds one
// zerolog.Logger here and every constructor receives its own child with a
// component tag. zerolog's writers are safe for concurrent use, which
// covers the cron goroutine writing alongside the main goroutine during
// startup and shutdown.

package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger. level comes pre-validated from
// Config; an unknown value falls back to info rather than failing late.
func newLogger(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "krakendca").
		Logger()
}

// componentLogger tags a child logger with the component name.
func componentLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
