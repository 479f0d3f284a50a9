// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Copy enabled mods into the game directory",
	Long: `Reconcile the registry, then rebuild the game's mod tree from the
enabled mods and register their script packages with the engine. The
previous deployment is replaced wholesale.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := runDeploy(a); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Deployed."))
		return nil
	},
}

// runDeploy is the shared reconcile-then-deploy sequence used by deploy and
// launch.
func runDeploy(a *app) error {
	if err := a.mgr.Reconcile(); err != nil {
		return err
	}
	gameDir, err := a.gameDir()
	if err != nil {
		return err
	}
	return a.deployer(gameDir).Deploy(a.mgr.Mods())
}
