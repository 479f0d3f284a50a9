// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if want := DefaultConfig(); *cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	content := "mods_dir = 'MyMods'\ngame_path = '/games/xrd'\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, path, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if cfg.ModsDir != "MyMods" {
		t.Errorf("ModsDir = %q, want %q", cfg.ModsDir, "MyMods")
	}
	if cfg.GamePath != "/games/xrd" {
		t.Errorf("GamePath = %q, want %q", cfg.GamePath, "/games/xrd")
	}
	// Keys absent from the file keep their defaults.
	if cfg.LogFile != DefaultConfig().LogFile {
		t.Errorf("LogFile = %q, want default %q", cfg.LogFile, DefaultConfig().LogFile)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load() of missing explicit file succeeded, want error")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(cfgPath, []byte("mods_dir = 'FromFile'\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("XRDMM_MODS_DIR", "FromEnv")

	cfg, _, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModsDir != "FromEnv" {
		t.Errorf("ModsDir = %q, want env override %q", cfg.ModsDir, "FromEnv")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{
		ModsDir:      "Bundles",
		RegistryFile: "registry.ini",
		LogFile:      "session.log",
		GamePath:     "/opt/xrd",
	}
	savedPath, err := Save(&want)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cfg, resolved, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if resolved != savedPath {
		t.Errorf("resolved path = %q, want %q", resolved, savedPath)
	}
	if *cfg != want {
		t.Errorf("round trip = %+v, want %+v", cfg, want)
	}
}
