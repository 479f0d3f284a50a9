// SPDX-License-Identifier: MPL-2.0

package manager

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"xrdmm-cli/internal/descriptor"
	"xrdmm-cli/internal/registry"

	"github.com/charmbracelet/log"
)

func newTestManager(t *testing.T) (*Manager, string, *registry.Store) {
	t.Helper()
	root := t.TempDir()
	modsDir := filepath.Join(root, "Mods")
	if err := os.MkdirAll(modsDir, 0o755); err != nil {
		t.Fatalf("create mods dir: %v", err)
	}
	store := registry.New(filepath.Join(root, registry.FileName))
	return New(modsDir, store, log.New(io.Discard)), modsDir, store
}

func writeMod(t *testing.T, modsDir, name string, scripts ...string) {
	t.Helper()
	d := &descriptor.Descriptor{
		Name:       name,
		Scripts:    scripts,
		SourcePath: filepath.Join(modsDir, name),
	}
	if err := d.Write(); err != nil {
		t.Fatalf("write mod %q: %v", name, err)
	}
}

func liveNames(m *Manager) []string {
	names := make([]string, 0, len(m.Mods()))
	for _, mod := range m.Mods() {
		names = append(names, mod.Name)
	}
	return names
}

func registryNames(t *testing.T, store *registry.Store) []string {
	t.Helper()
	entries, err := store.Load()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// assertOrderInvariant checks that the persisted key order matches the
// in-memory list and that every Order field equals its position.
func assertOrderInvariant(t *testing.T, m *Manager, store *registry.Store) {
	t.Helper()
	if got, want := registryNames(t, store), liveNames(m); !reflect.DeepEqual(got, want) {
		t.Errorf("registry order %v != list order %v", got, want)
	}
	for i, mod := range m.Mods() {
		if mod.Order != i {
			t.Errorf("mod %q has Order %d at position %d", mod.Name, mod.Order, i)
		}
	}
}

func TestReconcile_BuildsListInRegistryOrder(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "B")
	writeMod(t, modsDir, "A")
	writeMod(t, modsDir, "C")
	if err := store.Rewrite([]registry.Entry{{Name: "C", Enabled: true}, {Name: "A", Enabled: false}, {Name: "B", Enabled: true}}); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}

	if got, want := liveNames(m), []string{"C", "A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list order = %v, want %v", got, want)
	}
	if m.Find("A").Enabled {
		t.Error("mod A should be disabled")
	}
	assertOrderInvariant(t, m, store)
}

func TestReconcile_DeadRegistryEntryIsHealed(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Alive")
	if err := store.Rewrite([]registry.Entry{{Name: "Ghost", Enabled: true}, {Name: "Alive", Enabled: true}}); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}

	if got, want := liveNames(m), []string{"Alive"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list = %v, want %v", got, want)
	}
	if got, want := registryNames(t, store), []string{"Alive"}; !reflect.DeepEqual(got, want) {
		t.Errorf("registry after heal = %v, want %v", got, want)
	}
}

func TestReconcile_SkipsDescriptorWithoutDescriptionSection(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Good")
	badDir := filepath.Join(modsDir, "Bad")
	if err := os.MkdirAll(badDir, 0o755); err != nil {
		t.Fatalf("create bad mod dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, descriptor.FileName), []byte("[Scripts]\nScriptPackage=X\n"), 0o644); err != nil {
		t.Fatalf("write bad descriptor: %v", err)
	}
	if err := store.Rewrite([]registry.Entry{{Name: "Bad", Enabled: true}, {Name: "Good", Enabled: true}}); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}

	if got, want := liveNames(m), []string{"Good"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list = %v, want %v", got, want)
	}
	if got, want := registryNames(t, store), []string{"Good"}; !reflect.DeepEqual(got, want) {
		t.Errorf("registry after heal = %v, want %v", got, want)
	}
}

func TestInstall_IsIdempotent(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Solo")

	first, err := m.Install("Solo")
	if err != nil {
		t.Fatalf("Install() first error: %v", err)
	}
	second, err := m.Install("Solo")
	if err != nil {
		t.Fatalf("Install() second error: %v", err)
	}

	if first != second {
		t.Error("second install produced a new record")
	}
	if len(m.Mods()) != 1 {
		t.Errorf("live list has %d records, want 1", len(m.Mods()))
	}
	if got := registryNames(t, store); len(got) != 1 {
		t.Errorf("registry has %d entries, want 1: %v", len(got), got)
	}
}

func TestInstall_SynthesizesDescriptorWhenMissing(t *testing.T) {
	m, modsDir, _ := newTestManager(t)
	dir := filepath.Join(modsDir, "Bare")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create bare mod dir: %v", err)
	}

	mod, err := m.Install("Bare")
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if mod.Name != "Bare" || !mod.Enabled {
		t.Errorf("installed record = %+v, want enabled mod named Bare", mod)
	}

	d, err := descriptor.Read(dir)
	if err != nil {
		t.Fatalf("synthesized descriptor unreadable: %v", err)
	}
	if d.Name != "Bare" {
		t.Errorf("synthesized Name = %q, want %q", d.Name, "Bare")
	}
}

func TestInstall_DescriptorWithoutNameFails(t *testing.T) {
	m, modsDir, _ := newTestManager(t)
	dir := filepath.Join(modsDir, "Anon")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create mod dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, descriptor.FileName), []byte("[Description]\nAuthor=x\n"), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	if _, err := m.Install("Anon"); !errors.Is(err, descriptor.ErrMissingName) {
		t.Errorf("Install() error = %v, want ErrMissingName", err)
	}
	if len(m.Mods()) != 0 {
		t.Errorf("live list = %v, want empty", liveNames(m))
	}
}

func TestInstall_MissingDirectoryFails(t *testing.T) {
	m, _, _ := newTestManager(t)
	if _, err := m.Install("Nowhere"); err == nil {
		t.Error("Install() of missing directory succeeded, want error")
	}
}

func TestOrderInvariant_AfterMutationSequence(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		writeMod(t, modsDir, name)
		if _, err := m.Install(name); err != nil {
			t.Fatalf("Install(%q) error: %v", name, err)
		}
	}
	assertOrderInvariant(t, m, store)

	if err := m.ToggleEnabled("B"); err != nil {
		t.Fatalf("ToggleEnabled() error: %v", err)
	}
	assertOrderInvariant(t, m, store)

	if err := m.Reorder(3, 0); err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}
	if got, want := liveNames(m), []string{"D", "A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list after reorder = %v, want %v", got, want)
	}
	assertOrderInvariant(t, m, store)

	if err := m.Remove("A"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	assertOrderInvariant(t, m, store)

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if got, want := liveNames(m), []string{"D", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("list after reconcile = %v, want %v", got, want)
	}
	assertOrderInvariant(t, m, store)
}

func TestReorder_OutOfRange(t *testing.T) {
	m, modsDir, _ := newTestManager(t)
	writeMod(t, modsDir, "Only")
	if _, err := m.Install("Only"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	if err := m.Reorder(0, 5); err == nil {
		t.Error("Reorder() out of range succeeded, want error")
	}
}

func TestRemove_DeletesDirectoryAndEntry(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Doomed")
	if _, err := m.Install("Doomed"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	if err := m.Remove("Doomed"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(modsDir, "Doomed")); !os.IsNotExist(err) {
		t.Error("mod directory still exists after Remove()")
	}
	if got := registryNames(t, store); len(got) != 0 {
		t.Errorf("registry still has entries: %v", got)
	}
	if err := m.Remove("Doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

func TestRename_MovesDirectoryAndRegistryKey(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Old")
	if _, err := m.Install("Old"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	if err := m.Rename("Old", "New"); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(modsDir, "New")); err != nil {
		t.Errorf("renamed directory missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "Old")); !os.IsNotExist(err) {
		t.Error("old directory still exists after Rename()")
	}
	if got, want := registryNames(t, store), []string{"New"}; !reflect.DeepEqual(got, want) {
		t.Errorf("registry = %v, want %v", got, want)
	}

	d, err := descriptor.Read(filepath.Join(modsDir, "New"))
	if err != nil {
		t.Fatalf("descriptor after rename unreadable: %v", err)
	}
	if d.Name != "New" {
		t.Errorf("descriptor Name = %q, want %q", d.Name, "New")
	}
}

func TestRename_DirectoryMoveFailureLeavesStateIntact(t *testing.T) {
	m, modsDir, store := newTestManager(t)
	writeMod(t, modsDir, "Stuck")
	if _, err := m.Install("Stuck"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	// A non-empty directory at the target makes os.Rename fail without the
	// target being a live mod.
	blocker := filepath.Join(modsDir, "Blocked", "payload")
	if err := os.MkdirAll(blocker, 0o755); err != nil {
		t.Fatalf("create blocker: %v", err)
	}

	if err := m.Rename("Stuck", "Blocked"); err == nil {
		t.Fatal("Rename() onto occupied directory succeeded, want error")
	}

	if m.Find("Stuck") == nil || m.Find("Blocked") != nil {
		t.Errorf("live list changed after failed rename: %v", liveNames(m))
	}
	if got, want := registryNames(t, store), []string{"Stuck"}; !reflect.DeepEqual(got, want) {
		t.Errorf("registry = %v, want %v", got, want)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "Stuck")); err != nil {
		t.Errorf("source directory gone after failed rename: %v", err)
	}
}

func TestRename_DuplicateTargetRefused(t *testing.T) {
	m, modsDir, _ := newTestManager(t)
	writeMod(t, modsDir, "One")
	writeMod(t, modsDir, "Two")
	for _, name := range []string{"One", "Two"} {
		if _, err := m.Install(name); err != nil {
			t.Fatalf("Install(%q) error: %v", name, err)
		}
	}

	if err := m.Rename("One", "Two"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Rename() error = %v, want ErrDuplicateName", err)
	}
}

func TestCreate_RefusesDuplicateName(t *testing.T) {
	m, modsDir, _ := newTestManager(t)
	writeMod(t, modsDir, "Taken")
	if _, err := m.Install("Taken"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	_, err := m.Create(&descriptor.Descriptor{Name: "Taken"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Create() error = %v, want ErrDuplicateName", err)
	}
}

type fakeExtractor struct {
	called bool
}

func (f *fakeExtractor) Extract(_ context.Context, _, destDir string) error {
	f.called = true
	d := &descriptor.Descriptor{Name: filepath.Base(destDir), SourcePath: destDir}
	return d.Write()
}

func TestInstallFromPath_UsesArchiveStem(t *testing.T) {
	m, _, _ := newTestManager(t)
	fake := &fakeExtractor{}
	m.SetExtractor(fake)

	archivePath := filepath.Join(t.TempDir(), "CoolMod.zip")
	if err := os.WriteFile(archivePath, []byte("not a real zip"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	mod, err := m.InstallFromPath(context.Background(), archivePath)
	if err != nil {
		t.Fatalf("InstallFromPath() error: %v", err)
	}
	if !fake.called {
		t.Error("extractor was not invoked")
	}
	if mod.Name != "CoolMod" {
		t.Errorf("installed mod = %q, want %q", mod.Name, "CoolMod")
	}
}

func TestInstallFromPath_RejectsUnknownExtension(t *testing.T) {
	m, _, _ := newTestManager(t)
	if _, err := m.InstallFromPath(context.Background(), "/tmp/mod.tar.gz"); err == nil {
		t.Error("InstallFromPath() accepted unsupported extension")
	}
}
