// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a mod's directory and registry entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name := args[0]
		if _, err := a.requireMod(name); err != nil {
			return err
		}

		if !removeYes {
			fmt.Printf("Delete %s and all of its files? [y/N] ", name)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println(SubtitleStyle.Render("Aborted."))
				return nil
			}
		}

		if err := a.mgr.Remove(name); err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Removed: ") + name)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
}
