// SPDX-License-Identifier: MPL-2.0

// Command extcfg aggregates the extension configuration of a Composer project.
package main

import cmd "github.com/extcfg/extcfg/cmd/extcfg"

func main() {
	cmd.Main()
}
