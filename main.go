// SPDX-License-Identifier: MPL-2.0

// Command addonscout discovers installed Blender addons.
package main

import cmd "github.com/addonscout/addonscout/cmd/addonscout"

func main() {
	cmd.Execute()
}
