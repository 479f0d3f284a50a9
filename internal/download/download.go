// SPDX-License-Identifier: MPL-2.0

// Package download fetches remote mod archives to local temporary files.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// fallbackName is used when the final URL carries no usable file name.
const fallbackName = "tmp.bin"

// Downloader fetches url into destDir and returns the path of the saved file.
// Implementations are injected so install-from-url stays testable offline.
type Downloader interface {
	Download(ctx context.Context, url, destDir string) (string, error)
}

// HTTPDownloader downloads over HTTP(S). The zero value uses
// http.DefaultClient.
type HTTPDownloader struct {
	Client *http.Client
}

// Download performs a GET and saves the body into destDir. The file name is
// the last path segment of the final (post-redirect) URL so that archive
// extension detection works on mirrors that redirect to the real file.
func (d HTTPDownloader) Download(ctx context.Context, url, destDir string) (string, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: get %s: unexpected status %s", url, resp.Status)
	}

	name := path.Base(resp.Request.URL.Path)
	if name == "" || name == "." || name == "/" {
		name = fallbackName
	}

	target := filepath.Join(destDir, name)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("download: create %s: %w", target, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("download: save %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("download: save %s: %w", target, err)
	}
	return target, nil
}
