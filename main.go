// SPDX-License-Identifier: MPL-2.0

// Command switchrepo orchestrates the components of a multi-repo
// application on a developer machine.
package main

import cmd "github.com/arifsetyawan/switch-repo-experiment/cmd/switchrepo"

func main() {
	cmd.Execute()
}
