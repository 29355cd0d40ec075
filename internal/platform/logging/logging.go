package logging

import (
	"io"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns the application logger. Components receive named sub-loggers
// via Named; recoverable conditions are logged here rather than raised.
func New(output io.Writer, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "shakker",
		Output: output,
		Level:  level,
	})
}

// Discard is used in tests and wherever log output is unwanted.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
}
