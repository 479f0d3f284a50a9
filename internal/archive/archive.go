// SPDX-License-Identifier: MPL-2.0

// Package archive extracts mod bundles into the mods root.
//
// The rest of the tool only depends on the post-condition "the archive's
// contents exist under the destination directory"; container-format details
// stay behind the Extractor interface.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// SupportedExtensions lists the archive container formats accepted for mod
// installs, matching what mod authors actually publish.
var SupportedExtensions = []string{".zip", ".7z", ".rar"}

// Extractor unpacks an archive file into a destination directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Supported reports whether path has one of the accepted archive extensions.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// FormatExtractor extracts zip, 7z, and rar archives using format detection
// on the file name and stream contents.
type FormatExtractor struct{}

// Extract unpacks the archive at archivePath into destDir, creating the
// destination as needed. Entry paths are re-rooted under destDir; entries
// that would escape it are rejected.
func (FormatExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", archivePath, err)
	}
	defer f.Close()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return fmt.Errorf("archive: identify %s: %w", archivePath, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("archive: %s: format %s is not extractable", archivePath, format.Extension())
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("archive: create destination: %w", err)
	}

	err = extractor.Extract(ctx, input, func(ctx context.Context, info archives.FileInfo) error {
		return writeEntry(destDir, info)
	})
	if err != nil {
		return fmt.Errorf("archive: extract %s: %w", archivePath, err)
	}
	return nil
}

// writeEntry materialises one archive entry under destDir.
func writeEntry(destDir string, info archives.FileInfo) error {
	rel := filepath.FromSlash(info.NameInArchive)
	target := filepath.Join(destDir, rel)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return fmt.Errorf("entry %q escapes destination", info.NameInArchive)
	}

	if info.IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if info.LinkTarget != "" {
		// Mod payloads are plain asset files; links are not worth carrying.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := info.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	return copyToFile(target, src)
}

func copyToFile(target string, src fs.File) error {
	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
