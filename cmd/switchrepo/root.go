// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for switchrepo.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// topologyFile allows specifying a custom topology file
	topologyFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "switchrepo",
		Short: "A multi-repo component orchestrator",
		Long: TitleStyle.Render("switchrepo") + SubtitleStyle.Render(" - a multi-repo component orchestrator") + `

switchrepo brings up the components of a multi-repository application
on a developer machine: services started from their working copies,
containers resumed (or created) through Docker/Podman, and library
trees copied into the components that link them. Every component's
output streams back attributed, timestamped, and colored.

Components are declared in a 'switchrepo.cue' topology using CUE
format: environments, components, and the execution order.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Declare your components in switchrepo.cue
  2. Bring the stack up with: switchrepo run
  3. Stop everything with Ctrl-C

` + SubtitleStyle.Render("Examples:") + `
  switchrepo run                 Launch every component in the topology
  switchrepo pull                Run 'git pull' in every component repository
  switchrepo checkout develop    Switch every repository to 'develop'`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/switchrepo/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&topologyFile, "file", "f", "", "topology file (default is ./switchrepo.cue)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(mergeCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
