// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"xrdmm-cli/internal/config"
	"xrdmm-cli/internal/instance"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run as the active session and service queued installs",
	Long: `Hold the single-instance lock and service install requests queued by
other invocations until interrupted. While a watch session runs,
'xrdmm install' hands its work to it instead of installing directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lockPath, err := config.LockPath()
		if err != nil {
			return err
		}
		lk, ok, err := instance.Acquire(lockPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("another xrdmm session is already running")
		}
		defer lk.Release() //nolint:errcheck

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		spool, err := config.SpoolDir()
		if err != nil {
			return err
		}

		handler := func(ctx context.Context, req instance.Request) {
			if err := a.mgr.Reconcile(); err != nil {
				a.logger.Error("reconcile before queued install", "err", err)
				return
			}
			mod, err := installSource(cmd, a, req.Source)
			if err != nil {
				a.logger.Error("queued install failed", "source", req.Source, "err", err)
				fmt.Println(ErrorStyle.Render("Failed: ") + req.Source)
				return
			}
			fmt.Println(SuccessStyle.Render("Installed: ") + mod.Name)
		}

		a.logger.Info("watching for install requests", "spool", spool)
		err = instance.NewWatcher(spool, a.logger, handler).Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
