// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"xrdmm-cli/internal/descriptor"

	"github.com/spf13/cobra"
)

var createFlags descriptor.Descriptor

var createCmd = &cobra.Command{
	Use:   "create --name <name>",
	Short: "Create a new, empty mod",
	Long: `Create a fresh mod directory under the mods root with a descriptor
built from the given flags. The mod starts enabled at the bottom of the
priority list.`,
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

		d := createFlags
		mod, err := a.mgr.Create(&d)
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Created: ") + mod.Name)
		return nil
	},
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createFlags.Name, "name", "", "mod name (required)")
	f.StringVar(&createFlags.Author, "author", "", "mod author")
	f.StringVar(&createFlags.Version, "version", "", "mod version")
	f.StringVar(&createFlags.Category, "category", "", "mod category")
	f.StringVar(&createFlags.Description, "description", "", "mod description")
	f.StringVar(&createFlags.Page, "page", "", "mod home page URL")
	f.StringArrayVar(&createFlags.Scripts, "script", nil, "script package to register (repeatable)")
	_ = createCmd.MarkFlagRequired("name")
}
