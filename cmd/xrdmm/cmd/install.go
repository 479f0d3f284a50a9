// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"xrdmm-cli/internal/config"
	"xrdmm-cli/internal/download"
	"xrdmm-cli/internal/instance"
	"xrdmm-cli/internal/manager"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <archive|url>",
	Short: "Install a mod from an archive file or download URL",
	Long: `Install a mod from a local zip/7z/rar archive or a download URL.
The mod is named after the archive's file stem and enabled immediately.

If a 'xrdmm watch' session is running, the request is handed to it
instead of installing directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]

		lockPath, err := config.LockPath()
		if err != nil {
			return err
		}
		lk, ok, err := instance.Acquire(lockPath)
		if err != nil {
			return err
		}
		if !ok {
			// A watch session holds the lock; queue the request for it.
			spool, err := config.SpoolDir()
			if err != nil {
				return err
			}
			if _, err := instance.Submit(spool, instance.Request{Source: source}); err != nil {
				return err
			}
			fmt.Println(SuccessStyle.Render("Queued: ") + source + " (handed to the running session)")
			return nil
		}
		defer lk.Release() //nolint:errcheck

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.mgr.Reconcile(); err != nil {
			return err
		}

		mod, err := installSource(cmd, a, source)
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Installed: ") + mod.Name)
		return nil
	},
}

// installSource dispatches between URL and local-archive installs.
func installSource(cmd *cobra.Command, a *app, source string) (*manager.Mod, error) {
	ctx := cmd.Context()
	if isURL(source) {
		return a.mgr.InstallFromURL(ctx, source, &download.HTTPDownloader{})
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}
	return a.mgr.InstallFromPath(ctx, abs)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
