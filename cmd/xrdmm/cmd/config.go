// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"xrdmm-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if path == "" {
			fmt.Println(SubtitleStyle.Render("# no config file found, showing defaults"))
		} else {
			fmt.Println(SubtitleStyle.Render("# " + path))
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		path, err := config.Save(&cfg)
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Wrote: ") + path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
