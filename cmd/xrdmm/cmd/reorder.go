// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <name> <position>",
	Short: "Move a mod to a new position in the priority list",
	Long: `Move a mod to the given 1-based position in the priority list, as
shown by 'xrdmm list'. Position 1 is the highest priority: that mod wins
file conflicts on deploy.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name := args[0]
		mod, err := a.requireMod(name)
		if err != nil {
			return err
		}

		position, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position %q is not a number", args[1])
		}
		if position < 1 || position > len(a.mgr.Mods()) {
			return fmt.Errorf("position %d out of range 1..%d", position, len(a.mgr.Mods()))
		}

		if err := a.mgr.Reorder(mod.Order, position-1); err != nil {
			return err
		}
		fmt.Printf("%s%s is now #%d\n", SuccessStyle.Render("Moved: "), name, position)
		return nil
	},
}
