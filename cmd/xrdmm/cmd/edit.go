// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var editFlags struct {
	rename      string
	author      string
	version     string
	category    string
	description string
	page        string
	scripts     []string
}

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a mod's descriptor",
	Long: `Update fields of a mod's descriptor. Only flags given on the command
line change; everything else is preserved. --rename moves the mod's
directory and updates the registry entry under the new name.`,
	Args: cobra.ExactArgs(1),
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

		if cmd.Flags().Changed("rename") {
			if err := a.mgr.Rename(name, editFlags.rename); err != nil {
				return err
			}
			name = editFlags.rename
		}

		mod := a.mgr.Find(name)
		if cmd.Flags().Changed("author") {
			mod.Author = editFlags.author
		}
		if cmd.Flags().Changed("version") {
			mod.Version = editFlags.version
		}
		if cmd.Flags().Changed("category") {
			mod.Category = editFlags.category
		}
		if cmd.Flags().Changed("description") {
			mod.Description = editFlags.description
		}
		if cmd.Flags().Changed("page") {
			mod.Page = editFlags.page
		}
		if cmd.Flags().Changed("script") {
			mod.Scripts = editFlags.scripts
		}
		if err := mod.Descriptor.Write(); err != nil {
			return err
		}

		fmt.Println(SuccessStyle.Render("Updated: ") + name)
		return nil
	},
}

func init() {
	f := editCmd.Flags()
	f.StringVar(&editFlags.rename, "rename", "", "new mod name")
	f.StringVar(&editFlags.author, "author", "", "mod author")
	f.StringVar(&editFlags.version, "version", "", "mod version")
	f.StringVar(&editFlags.category, "category", "", "mod category")
	f.StringVar(&editFlags.description, "description", "", "mod description")
	f.StringVar(&editFlags.page, "page", "", "mod home page URL")
	f.StringArrayVar(&editFlags.scripts, "script", nil, "script package to register (repeatable; replaces the list)")
}
