// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for xrdmm.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// cfgFile allows specifying a custom config file.
	cfgFile string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "xrdmm",
		Short: "A mod manager for GUILTY GEAR Xrd Rev 2",
		Long: TitleStyle.Render("xrdmm") + SubtitleStyle.Render(" - A mod manager for GUILTY GEAR Xrd Rev 2") + `

xrdmm keeps a priority-ordered registry of installed mods, deploys the
enabled ones into the game's directory tree, and registers their script
packages with the engine. Mods install from local zip/7z/rar archives or
straight from a download URL.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install a mod:   xrdmm install path/to/mod.zip
  2. Review the list: xrdmm list
  3. Deploy and play: xrdmm launch

` + SubtitleStyle.Render("Examples:") + `
  xrdmm list                     Show installed mods in priority order
  xrdmm install https://...zip   Install a mod from a URL
  xrdmm reorder SomeMod 1        Move a mod to the top of the list
  xrdmm deploy                   Copy enabled mods into the game tree`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/xrdmm/xrdmm.toml)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
