// SPDX-License-Identifier: MPL-2.0

// Package iniutil centralises the INI load/save conventions shared by the
// descriptor, registry, and engine-config packages.
//
// The game's configuration dialect differs from stock INI in three ways that
// matter here: keys may repeat within a section (+NativePackages), values are
// written without escaping or quoting, and section/key order is significant.
package iniutil

import (
	"fmt"

	"gopkg.in/ini.v1"
)

func init() {
	// The game's loader expects "Key=Value" lines without padding.
	ini.PrettyFormat = false
}

// Options returns the load options for every INI file this tool touches.
// Shadows keep repeated keys, and repeated keys may repeat the same value
// too (a descriptor listing a script package twice stays listed twice; only
// the engine-config merge de-duplicates). Inline comment handling is
// disabled because values may legally contain ';' and '#', and boolean keys
// tolerate the bare "!ClearKey"-style lines Unreal configs sometimes carry.
func Options() ini.LoadOptions {
	return ini.LoadOptions{
		AllowShadows:               true,
		AllowDuplicateShadowValues: true,
		IgnoreInlineComment:        true,
		AllowBooleanKeys:           true,
	}
}

// Load reads the INI file at path with the shared options.
func Load(path string) (*ini.File, error) {
	f, err := ini.LoadSources(Options(), path)
	if err != nil {
		return nil, fmt.Errorf("load ini %s: %w", path, err)
	}
	return f, nil
}

// Empty returns a fresh in-memory INI file using the shared options.
func Empty() *ini.File {
	return ini.Empty(Options())
}
