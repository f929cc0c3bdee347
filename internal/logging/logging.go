// Package logging builds the logrus logger shared by the command and its sources.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. Verbose enables debug output.
func New(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Printer adapts a logrus entry to the Printf-style logger interfaces used by
// client libraries, sending every line at a fixed level.
type Printer struct {
	Entry *logrus.Entry
	Level logrus.Level
}

func (p Printer) Printf(format string, args ...interface{}) {
	p.Entry.Logf(p.Level, format, args...)
}
