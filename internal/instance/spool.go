// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// requestExt is the suffix of completed spool entries. Entries are written
// under a hidden temporary name first, so watchers only ever see whole files.
const requestExt = ".json"

// Request is one piece of work queued for the session holding the lock.
type Request struct {
	// Source is what to install: a local archive path or a download URL.
	Source string `json:"source"`
	// SubmittedAt records when the request entered the spool.
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit queues a request in the spool directory and returns the entry's
// path. The write is atomic with respect to watchers.
func Submit(spoolDir string, req Request) (string, error) {
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		return "", fmt.Errorf("instance: create spool directory: %w", err)
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("instance: encode request: %w", err)
	}

	tmp, err := os.CreateTemp(spoolDir, ".pending-*")
	if err != nil {
		return "", fmt.Errorf("instance: create spool entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("instance: write spool entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("instance: close spool entry: %w", err)
	}

	final := filepath.Join(spoolDir, fmt.Sprintf("req-%d%s", time.Now().UnixNano(), requestExt))
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("instance: publish spool entry: %w", err)
	}
	return final, nil
}

// readRequest decodes one spool entry.
func readRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("instance: read spool entry: %w", err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("instance: decode %s: %w", path, err)
	}
	return req, nil
}
