// Package logging builds the structured logger shared by every component.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Verbose lowers the level to debug, which
// is where per-attempt and per-keystroke detail is logged.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "exportbot",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
