// SPDX-License-Identifier: MPL-2.0

// Package engineconfig merges script-package references into the game-owned
// DefaultEngine.ini without disturbing unrelated configuration.
//
// The game only loads UnrealScript from packages listed as +NativePackages
// under [Engine.ScriptPackages]. Each deploy first resets that list to the
// single bootstrap entry so entries from previous runs never accumulate,
// then appends each enabled mod's packages exactly once.
package engineconfig

import (
	"errors"
	"fmt"

	"xrdmm-cli/internal/iniutil"

	"gopkg.in/ini.v1"
)

const (
	// SectionName is the engine config section holding script package lists.
	SectionName = "Engine.ScriptPackages"

	// PackageKey is the repeated key listing native script packages.
	PackageKey = "+NativePackages"

	// BootstrapPackage is the game's own script package. It must stay first
	// in the list or the game boots without its base scripts.
	BootstrapPackage = "REDGame"
)

// ErrSectionMissing is returned when the engine config lacks the
// [Engine.ScriptPackages] section, which points at a broken game install.
var ErrSectionMissing = errors.New("engineconfig: Engine.ScriptPackages section not found")

// Reset removes every +NativePackages entry and reinstates the bootstrap
// package as the sole remaining one. Run once per deploy, before any
// per-mod merges.
func Reset(path string) error {
	f, sec, err := open(path)
	if err != nil {
		return err
	}

	sec.DeleteKey(PackageKey)
	if _, err := sec.NewKey(PackageKey, BootstrapPackage); err != nil {
		return fmt.Errorf("engineconfig: reset packages: %w", err)
	}

	return save(f, path)
}

// EnsurePackage appends pkg to the +NativePackages list unless an entry with
// the exact same value already exists. It reports whether the file changed.
func EnsurePackage(path, pkg string) (bool, error) {
	f, sec, err := open(path)
	if err != nil {
		return false, err
	}

	if sec.HasKey(PackageKey) {
		for _, existing := range sec.Key(PackageKey).ValueWithShadows() {
			if existing == pkg {
				return false, nil
			}
		}
		if err := sec.Key(PackageKey).AddShadow(pkg); err != nil {
			return false, fmt.Errorf("engineconfig: append package %q: %w", pkg, err)
		}
	} else {
		if _, err := sec.NewKey(PackageKey, pkg); err != nil {
			return false, fmt.Errorf("engineconfig: append package %q: %w", pkg, err)
		}
	}

	return true, save(f, path)
}

// Packages returns the current +NativePackages values in file order.
func Packages(path string) ([]string, error) {
	_, sec, err := open(path)
	if err != nil {
		return nil, err
	}
	if !sec.HasKey(PackageKey) {
		return nil, nil
	}
	return sec.Key(PackageKey).ValueWithShadows(), nil
}

func open(path string) (*ini.File, *ini.Section, error) {
	f, err := iniutil.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("engineconfig: %w", err)
	}
	sec, err := f.GetSection(SectionName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrSectionMissing, path)
	}
	return f, sec, nil
}

func save(f *ini.File, path string) error {
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("engineconfig: write %s: %w", path, err)
	}
	return nil
}
