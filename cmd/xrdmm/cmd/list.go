// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show installed mods in priority order",
	Long: `List every installed mod, top priority first. When two mods ship the
same file, the one higher in this list wins at deploy time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.mgr.Reconcile(); err != nil {
			return err
		}

		mods := a.mgr.Mods()
		if len(mods) == 0 {
			fmt.Println(SubtitleStyle.Render("No mods installed."))
			return nil
		}

		fmt.Printf("%-4s %-8s %-30s %-10s %-20s %s\n", "#", "STATE", "NAME", "VERSION", "AUTHOR", "CATEGORY")
		for i, mod := range mods {
			fmt.Printf("%-4d %s %-30s %-10s %-20s %s\n",
				i+1, stateLabel(mod.Enabled), mod.Name, mod.Version, mod.Author, mod.Category)
		}
		return nil
	},
}

// stateLabel pads the raw text to the column width before styling, so ANSI
// escape bytes never count toward the printf padding and rows stay aligned.
func stateLabel(enabled bool) string {
	if enabled {
		return SuccessStyle.Render(fmt.Sprintf("%-8s", "on"))
	}
	return WarningStyle.Render(fmt.Sprintf("%-8s", "off"))
}
