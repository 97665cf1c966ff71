// Package logging builds the CLI's logr.Logger on top of a charmbracelet/log
// sink. Components take a logr.Logger and default to logr.Discard().
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-logr/logr"
	"github.com/magic-cli-dev/magic/internal/branding"
)

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info. V(1) records are
// emitted only at debug level.
func New(w io.Writer, level string) logr.Logger {
	return logr.FromSlogHandler(NewSink(w, level))
}

// NewSink returns the underlying charmbracelet logger, which also implements
// slog.Handler.
func NewSink(w io.Writer, level string) *log.Logger {
	sink := log.NewWithOptions(w, log.Options{
		Prefix: branding.CLIName(),
	})
	sink.SetLevel(ParseLevel(level))
	return sink
}

// ParseLevel maps a level name onto a charmbracelet level. "verbose" is
// accepted as an alias for debug.
func ParseLevel(level string) log.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "verbose" {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
