// SPDX-License-Identifier: MPL-2.0

// Package descriptor reads and writes the per-mod metadata file (mod.ini).
//
// A descriptor lives inside the mod's own directory and has two sections:
// [Description] with scalar fields, and [Scripts] with zero or more repeated
// ScriptPackage entries whose file order is meaningful.
package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"xrdmm-cli/internal/iniutil"
)

// FileName is the descriptor file name inside every mod directory.
const FileName = "mod.ini"

var (
	// ErrMissingSection is returned when the [Description] section is absent.
	ErrMissingSection = errors.New("descriptor: missing Description section")

	// ErrMissingName is returned when the Name key is absent or empty.
	// A descriptor without a name does not identify a mod.
	ErrMissingName = errors.New("descriptor: missing Name")
)

// Descriptor is the parsed metadata of one mod. Name is the mod's identity
// key; all other scalar fields default to the empty string. Scripts preserves
// the descriptor's ScriptPackage entries in file order, duplicates included —
// de-duplication happens only when packages are merged into the engine config.
type Descriptor struct {
	Name        string
	Author      string
	Version     string
	Category    string
	Description string
	Page        string
	Scripts     []string

	// SourcePath is the directory containing the descriptor. It is owned by
	// the mod and never shared between mods.
	SourcePath string
}

// Read parses the descriptor inside dir. It fails with ErrMissingSection when
// the [Description] section is absent and ErrMissingName when Name is absent
// or empty; every other field falls back to its zero value.
func Read(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, FileName)
	f, err := iniutil.Load(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: %w", err)
	}

	desc, err := f.GetSection("Description")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingSection, path)
	}

	d := &Descriptor{SourcePath: dir}
	d.Name = desc.Key("Name").String()
	if d.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingName, path)
	}
	d.Author = desc.Key("Author").String()
	d.Version = desc.Key("Version").String()
	d.Category = desc.Key("Category").String()
	d.Description = desc.Key("Description").String()
	d.Page = desc.Key("Page").String()

	if scripts, err := f.GetSection("Scripts"); err == nil && scripts.HasKey("ScriptPackage") {
		d.Scripts = append(d.Scripts, scripts.Key("ScriptPackage").ValueWithShadows()...)
	}

	return d, nil
}

// Write serialises the descriptor into SourcePath/mod.ini, creating the mod
// directory (and parents) first. The output is deterministic: [Description]
// comes first with its fields in fixed order, then one ScriptPackage line per
// script in list order. An existing descriptor is overwritten wholesale.
func (d *Descriptor) Write() error {
	if d.SourcePath == "" {
		return fmt.Errorf("descriptor: write %q: no source path", d.Name)
	}
	if err := os.MkdirAll(d.SourcePath, 0o755); err != nil {
		return fmt.Errorf("descriptor: create mod directory: %w", err)
	}

	f := iniutil.Empty()
	desc, err := f.NewSection("Description")
	if err != nil {
		return fmt.Errorf("descriptor: build Description section: %w", err)
	}
	for _, kv := range []struct{ key, value string }{
		{"Name", d.Name},
		{"Author", d.Author},
		{"Version", d.Version},
		{"Category", d.Category},
		{"Description", d.Description},
		{"Page", d.Page},
	} {
		if _, err := desc.NewKey(kv.key, kv.value); err != nil {
			return fmt.Errorf("descriptor: set %s: %w", kv.key, err)
		}
	}

	if len(d.Scripts) > 0 {
		scripts, err := f.NewSection("Scripts")
		if err != nil {
			return fmt.Errorf("descriptor: build Scripts section: %w", err)
		}
		for i, pkg := range d.Scripts {
			if i == 0 {
				if _, err := scripts.NewKey("ScriptPackage", pkg); err != nil {
					return fmt.Errorf("descriptor: set ScriptPackage: %w", err)
				}
				continue
			}
			if err := scripts.Key("ScriptPackage").AddShadow(pkg); err != nil {
				return fmt.Errorf("descriptor: append ScriptPackage: %w", err)
			}
		}
	}

	path := filepath.Join(d.SourcePath, FileName)
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("descriptor: write %s: %w", path, err)
	}
	return nil
}
