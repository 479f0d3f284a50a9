// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"xrdmm-cli/internal/steam"

	"github.com/spf13/cobra"
)

// openURL hands a URL to the desktop's default handler. Swappable in tests.
var openURL = func(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Deploy enabled mods, then start the game through Steam",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := runDeploy(a); err != nil {
			return err
		}
		if err := openURL(steam.RunURL); err != nil {
			return fmt.Errorf("start game: %w", err)
		}
		fmt.Println(SuccessStyle.Render("Launching ") + "GUILTY GEAR Xrd Rev 2...")
		return nil
	},
}
