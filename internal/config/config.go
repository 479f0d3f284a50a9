// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists the application's settings. Settings
// come from a TOML file, with every key overridable through XRDMM_*
// environment variables; missing files fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "xrdmm"
	// ConfigFileName is the config file name (without extension).
	ConfigFileName = "xrdmm"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// Config holds every user-tunable setting.
type Config struct {
	// ModsDir is the directory holding installed mod sources.
	ModsDir string `mapstructure:"mods_dir" toml:"mods_dir"`
	// RegistryFile is the mod registry path. Relative paths resolve
	// against the mods directory's parent.
	RegistryFile string `mapstructure:"registry_file" toml:"registry_file"`
	// LogFile is the session log path.
	LogFile string `mapstructure:"log_file" toml:"log_file"`
	// GamePath overrides Steam discovery of the game's installation
	// directory when non-empty.
	GamePath string `mapstructure:"game_path" toml:"game_path"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		ModsDir:      "Mods",
		RegistryFile: "config.ini",
		LogFile:      "Launch.log",
	}
}

// ConfigDir returns the configuration directory using platform conventions:
// Windows uses %APPDATA%, macOS uses ~/Library/Application Support, and
// Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("config: get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// SpoolDir returns the directory where deferred requests queue for a running
// watch session.
func SpoolDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "spool"), nil
}

// LockPath returns the path of the single-instance lock file.
func LockPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".lock"), nil
}

// Load reads the configuration. An explicit cfgFile is used exclusively and
// must exist; otherwise the current directory and the config directory are
// searched, and absence of any file is not an error. The resolved file path
// is returned alongside the settings (empty when pure defaults applied).
func Load(cfgFile string) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("mods_dir", defaults.ModsDir)
	v.SetDefault("registry_file", defaults.RegistryFile)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("game_path", defaults.GamePath)

	v.SetEnvPrefix("XRDMM")
	for _, key := range []string{"mods_dir", "registry_file", "log_file", "game_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, "", fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	resolvedPath := ""
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
		resolvedPath = cfgFile
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(".")
		if cfgDir, err := ConfigDir(); err == nil {
			v.AddConfigPath(cfgDir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("config: read configuration: %w", err)
			}
		} else {
			resolvedPath = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("config: parse configuration: %w", err)
	}
	return &cfg, resolvedPath, nil
}

// Save writes the settings to the config directory, creating it if needed,
// and returns the written path.
func Save(cfg *Config) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("config: encode configuration: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
