// Package logger builds the charmbracelet/log loggers used across suggestbox.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing text lines to w
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
}

// Discard returns a logger that writes nowhere
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel accepts debug, info, warn, error or fatal; empty means info
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// OpenFile creates a logger appending to path. The returned close function
// releases the file.
func OpenFile(path, prefix string, level log.Level) (*log.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	return New(f, prefix, level), f.Close, nil
}
