// SPDX-License-Identifier: MPL-2.0

// Package registry persists the set of known mods in config.ini.
//
// The [Mods] section maps mod name to "True"/"False", and the key order of
// that section IS the priority order: there is no numeric order field. Any
// change is therefore a wholesale rewrite of the section derived from the
// in-memory list, never an in-place edit.
package registry

import (
	"fmt"
	"os"

	"xrdmm-cli/internal/iniutil"

	"gopkg.in/ini.v1"
)

const (
	// FileName is the default registry file name.
	FileName = "config.ini"

	modsSection    = "Mods"
	generalSection = "General"
)

// Entry is one persisted registry record. Position within the loaded slice is
// the mod's priority.
type Entry struct {
	Name    string
	Enabled bool
}

// Store reads and rewrites the registry file at Path. A missing file is
// equivalent to an empty registry; the file is created on first rewrite.
type Store struct {
	Path string
}

// New returns a Store backed by the registry file at path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Load returns the registry entries in stored (priority) order. The enabled
// flag is true only for the exact value "True"; anything else, malformed
// values included, loads as disabled.
func (s *Store) Load() ([]Entry, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}

	sec, err := f.GetSection(modsSection)
	if err != nil {
		return nil, nil
	}

	entries := make([]Entry, 0, len(sec.Keys()))
	for _, key := range sec.Keys() {
		entries = append(entries, Entry{
			Name:    key.Name(),
			Enabled: key.Value() == "True",
		})
	}
	return entries, nil
}

// Rewrite replaces the [Mods] section with the given entries in the given
// order and persists the file. Sections other than [Mods] (notably [General])
// survive untouched. A write failure leaves the caller's in-memory state
// authoritative; the file may be stale until the next successful rewrite.
func (s *Store) Rewrite(entries []Entry) error {
	f, err := s.open()
	if err != nil {
		return err
	}

	if len(f.Section(generalSection).Keys()) == 0 {
		f.Section(generalSection).Key("ConsoleVisible").SetValue("True")
	}

	f.DeleteSection(modsSection)
	sec, err := f.NewSection(modsSection)
	if err != nil {
		return fmt.Errorf("registry: build Mods section: %w", err)
	}
	for _, e := range entries {
		value := "False"
		if e.Enabled {
			value = "True"
		}
		if _, err := sec.NewKey(e.Name, value); err != nil {
			return fmt.Errorf("registry: set entry %q: %w", e.Name, err)
		}
	}

	if err := f.SaveTo(s.Path); err != nil {
		return fmt.Errorf("registry: write %s: %w", s.Path, err)
	}
	return nil
}

func (s *Store) open() (*ini.File, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return iniutil.Empty(), nil
	}
	f, err := iniutil.Load(s.Path)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return f, nil
}
