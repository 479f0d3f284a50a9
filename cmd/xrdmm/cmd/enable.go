// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a mod for the next deploy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a mod without removing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], false)
	},
}

func setEnabled(name string, enabled bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.requireMod(name); err != nil {
		return err
	}
	if err := a.mgr.SetEnabled(name, enabled); err != nil {
		return err
	}

	if enabled {
		fmt.Println(SuccessStyle.Render("Enabled: ") + name)
	} else {
		fmt.Println(WarningStyle.Render("Disabled: ") + name)
	}
	return nil
}
