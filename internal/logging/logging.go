// SPDX-License-Identifier: MPL-2.0

// Package logging builds the application logger. Every run appends to
// Launch.log next to the mods directory while mirroring output to stderr, so
// a session's history survives the terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileName is the on-disk log file name.
const FileName = "Launch.log"

// TimeFormat matches the timestamp layout used in the log file.
const TimeFormat = "2006-01-02 15:04"

// New returns a logger writing severity-tagged, timestamped lines to w.
func New(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
	})
}

// Open creates the application logger, appending to the log file at path and
// mirroring everything to stderr. The returned closer releases the file; log
// output keeps working after close, just without the file copy.
func Open(path string) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return New(io.MultiWriter(os.Stderr, f)), f.Close, nil
}
