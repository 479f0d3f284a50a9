// SPDX-License-Identifier: MPL-2.0

package main

import "xrdmm-cli/cmd/xrdmm/cmd"

func main() {
	cmd.Execute()
}
