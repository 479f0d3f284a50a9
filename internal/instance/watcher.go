// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Handler processes one queued request. The entry is removed after the
// handler returns, whatever the outcome.
type Handler func(ctx context.Context, req Request)

// Watcher services the spool directory for the session holding the lock.
type Watcher struct {
	dir     string
	logger  *log.Logger
	handler Handler
}

// NewWatcher returns a watcher over spoolDir that feeds entries to handler.
func NewWatcher(spoolDir string, logger *log.Logger, handler Handler) *Watcher {
	return &Watcher{dir: spoolDir, logger: logger, handler: handler}
}

// Run services the spool until ctx is canceled. Entries already present when
// the watcher starts are handled first, oldest name first, then filesystem
// notifications take over.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("instance: create spool directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("instance: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("instance: watch %s: %w", w.dir, err)
	}

	if err := w.drain(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if isRequestEntry(event.Name) {
				w.process(ctx, event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("spool watch error", "err", err)
		}
	}
}

// drain handles entries that queued up before the watcher existed.
func (w *Watcher) drain(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("instance: read spool directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if isRequestEntry(path) {
			names = append(names, path)
		}
	}
	sort.Strings(names)

	for _, path := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.process(ctx, path)
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, path string) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Error("remove spool entry", "path", path, "err", err)
		}
	}()

	req, err := readRequest(path)
	if err != nil {
		w.logger.Error("discarding malformed spool entry", "path", path, "err", err)
		return
	}
	w.logger.Info("handling queued request", "source", req.Source)
	w.handler(ctx, req)
}

// isRequestEntry reports whether path names a completed spool entry, as
// opposed to a hidden in-progress write.
func isRequestEntry(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, requestExt) && !strings.HasPrefix(base, ".")
}
