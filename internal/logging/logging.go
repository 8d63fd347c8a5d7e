// Package logging builds the console logger used by the server commands.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Params configures a console logger.
type Params struct {
	Debug  bool
	Output io.Writer // defaults to stderr
	Prefix string
}

// New returns a timestamped console logger at INFO, or DEBUG when
// params.Debug is set.
func New(params Params) *log.Logger {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          params.Prefix,
	})
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
