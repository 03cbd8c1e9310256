// Package logutil provides package-scoped loggers: each package gets its
// own prefixed *Logger instead of calling the global log package
// directly, and output is discarded unless a caller opts in.
package logutil

import (
	"io"
	"log"
)

// Logger is a thin wrapper around the standard library logger that can be
// silenced or redirected without touching call sites.
type Logger struct {
	*log.Logger
}

// GetLogger returns a Logger with the given prefix. Output is discarded by
// default; call SetOutput to enable it.
func GetLogger(prefix string) *Logger {
	return &Logger{log.New(io.Discard, prefix, log.LstdFlags)}
}

// SetOutput redirects the logger's output.
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}
