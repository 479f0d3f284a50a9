// SPDX-License-Identifier: MPL-2.0

// Package manager owns the authoritative in-memory mod list and keeps it
// reconciled with the registry file and the mods directory.
//
// The list is rebuilt by Reconcile and mutated only through the exported
// entry points (Install, Remove, SetEnabled, Reorder, Rename, Create). Every
// mutation renumbers the list and rewrites the registry so that the persisted
// key order and the in-memory order never diverge across a return to the
// caller. Per-mod failures during reconciliation are logged and skipped; only
// registry write and directory rename failures escalate.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xrdmm-cli/internal/archive"
	"xrdmm-cli/internal/descriptor"
	"xrdmm-cli/internal/download"
	"xrdmm-cli/internal/registry"

	"github.com/charmbracelet/log"
)

// ErrNotFound is returned when a named mod is not in the live list.
var ErrNotFound = errors.New("manager: mod not found")

// ErrDuplicateName is returned when a create or rename would collide with a
// live mod. Name is the only identity key, so collisions are refused outright.
var ErrDuplicateName = errors.New("manager: a mod with that name already exists")

// Mod is one live record: a parsed descriptor plus its registry state. Order
// is the 0-based position in the authoritative list; it is recomputed on
// every rebuild or reorder and must not be trusted across either.
type Mod struct {
	descriptor.Descriptor

	Enabled bool
	Order   int
}

// Manager reconciles and mutates the mod collection rooted at ModsDir.
type Manager struct {
	modsDir string
	store   *registry.Store
	logger  *log.Logger
	extract archive.Extractor

	mods []*Mod
}

// New returns a Manager over modsDir backed by store. The logger receives
// every recoverable condition; it must not be nil.
func New(modsDir string, store *registry.Store, logger *log.Logger) *Manager {
	return &Manager{
		modsDir: modsDir,
		store:   store,
		logger:  logger,
		extract: archive.FormatExtractor{},
	}
}

// SetExtractor replaces the archive extractor used by InstallFromPath.
func (m *Manager) SetExtractor(e archive.Extractor) { m.extract = e }

// Mods returns the authoritative list in priority order (index 0 is the
// highest priority). Callers must not reorder the returned slice.
func (m *Manager) Mods() []*Mod { return m.mods }

// Find returns the live mod with the given name, or nil.
func (m *Manager) Find(name string) *Mod {
	for _, mod := range m.mods {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}

// Reconcile rebuilds the live list from the registry and the filesystem.
//
// Registry entries are visited in stored order. An entry whose backing
// directory or descriptor is gone or unreadable produces no record: it is
// logged and marked as drift. If any drift was seen, the registry is
// rewritten from the surviving records so dead entries drop out. Only a
// failure to read or rewrite the registry itself is returned; everything
// else is recovered locally.
func (m *Manager) Reconcile() error {
	entries, err := m.store.Load()
	if err != nil {
		return err
	}

	m.mods = m.mods[:0]
	needsRewrite := false

	for _, entry := range entries {
		dir := filepath.Join(m.modsDir, entry.Name)
		if _, err := os.Stat(dir); err != nil {
			m.logger.Error("mod directory is gone, dropping registry entry", "mod", entry.Name, "path", dir)
			needsRewrite = true
			continue
		}
		d, err := descriptor.Read(dir)
		if err != nil {
			m.logger.Error("unreadable mod descriptor, dropping registry entry", "mod", entry.Name, "err", err)
			needsRewrite = true
			continue
		}
		m.mods = append(m.mods, &Mod{
			Descriptor: *d,
			Enabled:    entry.Enabled,
			Order:      len(m.mods),
		})
	}

	if needsRewrite {
		return m.rewrite()
	}
	return nil
}

// Install registers the mod directory modsDir/name in the live list. A name
// already live is a no-op returning the existing record, so installing twice
// never duplicates. A directory whose descriptor is missing or lacks a
// [Description] section gets a fresh descriptor synthesized from the supplied
// name; a descriptor that has the section but no Name stays broken and fails
// the install. New records are enabled and appended at the bottom of the
// priority order, then the registry is rewritten.
func (m *Manager) Install(name string) (*Mod, error) {
	if existing := m.Find(name); existing != nil {
		m.logger.Info("mod already installed", "mod", name)
		return existing, nil
	}

	dir := filepath.Join(m.modsDir, name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("manager: install %q: %w", name, err)
	}

	d, err := descriptor.Read(dir)
	switch {
	case err == nil:
	case errors.Is(err, descriptor.ErrMissingName):
		m.logger.Error("mod descriptor has no name", "mod", name, "err", err)
		return nil, err
	default:
		// No descriptor, no [Description] section, or unparseable: synthesize
		// one from the supplied name so the mod becomes manageable.
		d = &descriptor.Descriptor{Name: name, SourcePath: dir}
		if writeErr := d.Write(); writeErr != nil {
			m.logger.Error("could not synthesize mod descriptor", "mod", name, "err", writeErr)
			return nil, writeErr
		}
		m.logger.Warn("mod had no usable descriptor, created one", "mod", name)
	}

	mod := &Mod{Descriptor: *d, Enabled: true, Order: len(m.mods)}
	m.mods = append(m.mods, mod)
	if err := m.rewrite(); err != nil {
		return mod, err
	}
	m.logger.Info("installed mod", "mod", mod.Name)
	return mod, nil
}

// InstallFromPath extracts the archive at archivePath into the mods root and
// installs the result. The destination directory name is the archive's file
// stem, matching how mod archives are published.
func (m *Manager) InstallFromPath(ctx context.Context, archivePath string) (*Mod, error) {
	if !archive.Supported(archivePath) {
		err := fmt.Errorf("manager: install %s: unsupported archive extension", archivePath)
		m.logger.Error("unsupported archive extension", "path", archivePath)
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	if stem == "" {
		err := fmt.Errorf("manager: install %s: archive has no name", archivePath)
		m.logger.Error("archive has no name", "path", archivePath)
		return nil, err
	}

	dest := filepath.Join(m.modsDir, stem)
	if err := m.extract.Extract(ctx, archivePath, dest); err != nil {
		m.logger.Error("could not extract archive", "path", archivePath, "err", err)
		return nil, err
	}
	return m.Install(stem)
}

// InstallFromURL downloads url with the given downloader into a temporary
// directory and installs the fetched archive.
func (m *Manager) InstallFromURL(ctx context.Context, url string, dl download.Downloader) (*Mod, error) {
	tmpDir, err := os.MkdirTemp("", "xrdmm")
	if err != nil {
		return nil, fmt.Errorf("manager: create download directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath, err := dl.Download(ctx, url, tmpDir)
	if err != nil {
		m.logger.Error("could not download mod", "url", url, "err", err)
		return nil, err
	}
	return m.InstallFromPath(ctx, archivePath)
}

// Create writes a brand-new descriptor under the mods root and registers it.
// The name must not collide with a live mod.
func (m *Manager) Create(d *descriptor.Descriptor) (*Mod, error) {
	if d.Name == "" {
		return nil, descriptor.ErrMissingName
	}
	if m.Find(d.Name) != nil {
		return nil, ErrDuplicateName
	}

	d.SourcePath = filepath.Join(m.modsDir, d.Name)
	if err := d.Write(); err != nil {
		return nil, err
	}

	mod := &Mod{Descriptor: *d, Enabled: true, Order: len(m.mods)}
	m.mods = append(m.mods, mod)
	if err := m.rewrite(); err != nil {
		return mod, err
	}
	m.logger.Info("created mod", "mod", mod.Name)
	return mod, nil
}

// Remove deletes the mod's directory and drops its registry entry. The entry
// survives if the directory deletion fails, so a retry stays possible.
func (m *Manager) Remove(name string) error {
	mod := m.Find(name)
	if mod == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if err := os.RemoveAll(mod.SourcePath); err != nil {
		m.logger.Error("could not remove mod directory", "mod", name, "err", err)
		return fmt.Errorf("manager: remove %q: %w", name, err)
	}

	m.mods = append(m.mods[:mod.Order], m.mods[mod.Order+1:]...)
	m.renumber()
	if err := m.rewrite(); err != nil {
		return err
	}
	m.logger.Info("removed mod", "mod", name)
	return nil
}

// SetEnabled flips the enabled flag of the named mod and rewrites the
// registry.
func (m *Manager) SetEnabled(name string, enabled bool) error {
	mod := m.Find(name)
	if mod == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	mod.Enabled = enabled
	return m.rewrite()
}

// ToggleEnabled inverts the enabled flag of the named mod.
func (m *Manager) ToggleEnabled(name string) error {
	mod := m.Find(name)
	if mod == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	mod.Enabled = !mod.Enabled
	return m.rewrite()
}

// Reorder moves the record at index from to index to, renumbers every
// record by position, and rewrites the registry.
func (m *Manager) Reorder(from, to int) error {
	if from < 0 || from >= len(m.mods) || to < 0 || to >= len(m.mods) {
		return fmt.Errorf("manager: reorder %d -> %d: index out of range (have %d mods)", from, to, len(m.mods))
	}
	if from == to {
		return nil
	}

	mod := m.mods[from]
	m.mods = append(m.mods[:from], m.mods[from+1:]...)
	m.mods = append(m.mods[:to], append([]*Mod{mod}, m.mods[to:]...)...)
	m.renumber()
	return m.rewrite()
}

// Rename gives the mod a new name: the backing directory is relocated first,
// then the descriptor is rewritten under the new name, and finally the
// registry entry moves to the new key via the usual wholesale rewrite. A
// failed directory rename leaves everything untouched; a failed descriptor
// write rolls the directory move back.
func (m *Manager) Rename(oldName, newName string) error {
	mod := m.Find(oldName)
	if mod == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if newName == "" {
		return descriptor.ErrMissingName
	}
	if newName == oldName {
		return nil
	}
	if m.Find(newName) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	oldDir := mod.SourcePath
	newDir := filepath.Join(m.modsDir, newName)
	if err := os.Rename(oldDir, newDir); err != nil {
		m.logger.Error("could not relocate mod directory", "mod", oldName, "err", err)
		return fmt.Errorf("manager: rename %q: %w", oldName, err)
	}

	renamed := mod.Descriptor
	renamed.Name = newName
	renamed.SourcePath = newDir
	if err := renamed.Write(); err != nil {
		if backErr := os.Rename(newDir, oldDir); backErr != nil {
			m.logger.Error("could not roll back mod directory relocation", "mod", oldName, "err", backErr)
		}
		return fmt.Errorf("manager: rename %q: %w", oldName, err)
	}

	mod.Descriptor = renamed
	if err := m.rewrite(); err != nil {
		return err
	}
	m.logger.Info("renamed mod", "from", oldName, "to", newName)
	return nil
}

// renumber recomputes every Order field from list position.
func (m *Manager) renumber() {
	for i, mod := range m.mods {
		mod.Order = i
	}
}

// rewrite persists the current list as the registry, in list order.
func (m *Manager) rewrite() error {
	entries := make([]registry.Entry, 0, len(m.mods))
	for _, mod := range m.mods {
		entries = append(entries, registry.Entry{Name: mod.Name, Enabled: mod.Enabled})
	}
	if err := m.store.Rewrite(entries); err != nil {
		m.logger.Error("could not write registry", "err", err)
		return err
	}
	return nil
}
