// SPDX-License-Identifier: MPL-2.0

// Package deploy copies enabled mods into the game's asset tree.
//
// The game loader enumerates slot directories under the deployment target in
// ascending name order and applies last-loaded-wins semantics. Deploy walks
// the mod list bottom-to-top so the lowest-priority mod takes the earliest
// slot name and the top-of-list mod takes the latest, which is what makes
// the top of the list win asset conflicts.
package deploy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"xrdmm-cli/internal/engineconfig"
	"xrdmm-cli/internal/manager"

	"github.com/charmbracelet/log"
)

// Deployer copies mods into Target and registers their script packages in
// the engine config at EngineConfig.
type Deployer struct {
	// Target is the slot root the game loader reads, conventionally
	// <game>/REDGame/CookedPCConsole/Mods.
	Target string

	// EngineConfig is the path to the game's DefaultEngine.ini.
	EngineConfig string

	Logger *log.Logger

	// startSlot overrides the first slot candidate; tests use it to reach
	// the exhaustion edge without a million directories.
	startSlot string
}

// Deploy wipes the target tree and repopulates it from the enabled subset of
// mods, processed in reverse priority order. Per-mod failures (slot
// exhaustion, copy errors) are logged and skipped; a broken engine config
// aborts only the script-package merge. The mods slice is the authoritative
// list in priority order, index 0 highest.
func (d *Deployer) Deploy(mods []*manager.Mod) error {
	if err := os.RemoveAll(d.Target); err != nil {
		return fmt.Errorf("deploy: clear target %s: %w", d.Target, err)
	}

	if err := engineconfig.Reset(d.EngineConfig); err != nil {
		// Copying can still proceed; script-carrying mods just won't load.
		d.Logger.Error("could not reset engine script packages", "err", err)
	}

	deployed := 0
	for i := len(mods) - 1; i >= 0; i-- {
		mod := mods[i]
		if !mod.Enabled {
			continue
		}

		start := d.startSlot
		if start == "" {
			start = firstSlot
		}
		slot, err := allocateSlot(d.Target, start)
		if err != nil {
			d.Logger.Error("could not allocate a slot, skipping mod", "mod", mod.Name, "err", err)
			continue
		}

		dest := filepath.Join(d.Target, slot, mod.Name)
		if err := copyTree(mod.SourcePath, dest); err != nil {
			d.Logger.Error("could not copy mod", "mod", mod.Name, "err", err)
			continue
		}
		d.Logger.Info("deployed mod", "mod", mod.Name, "slot", slot)
		deployed++

		for _, pkg := range mod.Scripts {
			added, err := engineconfig.EnsurePackage(d.EngineConfig, pkg)
			if err != nil {
				d.Logger.Error("could not register script package", "mod", mod.Name, "package", pkg, "err", err)
				continue
			}
			if added {
				d.Logger.Info("added script package", "package", pkg)
			}
		}
	}

	d.Logger.Info("mods copied to game directory", "deployed", deployed)
	return nil
}

// copyTree recursively copies the directory src to dst, creating dst and any
// missing parents. Regular files only; mod payloads carry no links.
func copyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
