// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"xrdmm-cli/internal/archive"
	"xrdmm-cli/internal/config"
	"xrdmm-cli/internal/deploy"
	"xrdmm-cli/internal/logging"
	"xrdmm-cli/internal/manager"
	"xrdmm-cli/internal/registry"
	"xrdmm-cli/internal/steam"

	"github.com/charmbracelet/log"
)

// steamLocate is swappable in tests.
var steamLocate = steam.Locate

// app bundles the wired-up services every command needs.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
	mgr      *manager.Manager
}

// newApp loads configuration, opens the session log, and builds a manager
// over the configured mods directory. Callers must Close it.
func newApp() (*app, error) {
	cfg, _, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	mgr := manager.New(cfg.ModsDir, registry.New(registryPath(cfg)), logger)
	mgr.SetExtractor(archive.FormatExtractor{})

	return &app{cfg: cfg, logger: logger, closeLog: closeLog, mgr: mgr}, nil
}

func (a *app) Close() {
	if err := a.closeLog(); err != nil {
		fmt.Println(WarningStyle.Render("Warning: ") + "close log: " + err.Error())
	}
}

// requireMod reconciles and resolves a mod by name.
func (a *app) requireMod(name string) (*manager.Mod, error) {
	if err := a.mgr.Reconcile(); err != nil {
		return nil, err
	}
	mod := a.mgr.Find(name)
	if mod == nil {
		return nil, fmt.Errorf("mod %q: %w", name, manager.ErrNotFound)
	}
	return mod, nil
}

// gameDir resolves the game's installation directory, preferring the
// configured override over Steam discovery.
func (a *app) gameDir() (string, error) {
	if a.cfg.GamePath != "" {
		return a.cfg.GamePath, nil
	}
	return steamLocate()
}

// deployer builds a Deployer aimed at the given game directory.
func (a *app) deployer(gameDir string) *deploy.Deployer {
	return &deploy.Deployer{
		Target:       filepath.Join(gameDir, "REDGame", "CookedPCConsole", "Mods"),
		EngineConfig: filepath.Join(gameDir, "REDGame", "Config", "DefaultEngine.ini"),
		Logger:       a.logger,
	}
}

// registryPath resolves the registry file location: absolute paths are used
// as-is, relative ones sit next to the mods directory.
func registryPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.RegistryFile) {
		return cfg.RegistryFile
	}
	return filepath.Join(filepath.Dir(cfg.ModsDir), cfg.RegistryFile)
}
