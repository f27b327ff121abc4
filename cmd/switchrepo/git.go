// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/arifsetyawan/switch-repo-experiment/internal/gitops"
	"github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

var (
	pullCmd = &cobra.Command{
		Use:   "pull",
		Short: "Run 'git pull' in every component repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGitVerb(cmd.Context(), func(ctx context.Context, w *gitops.Workflow, sink chan<- runtime.Line) error {
				return w.Pull(ctx, sink)
			})
		},
	}

	pushCmd = &cobra.Command{
		Use:   "push",
		Short: "Run 'git push' in every component repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGitVerb(cmd.Context(), func(ctx context.Context, w *gitops.Workflow, sink chan<- runtime.Line) error {
				return w.Push(ctx, sink)
			})
		},
	}

	checkoutCmd = &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch every component repository to the given branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGitVerb(cmd.Context(), func(ctx context.Context, w *gitops.Workflow, sink chan<- runtime.Line) error {
				return w.Checkout(ctx, sink, args[0])
			})
		},
	}

	mergeCmd = &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge the given branch in every component repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGitVerb(cmd.Context(), func(ctx context.Context, w *gitops.Workflow, sink chan<- runtime.Line) error {
				return w.Merge(ctx, sink, args[0])
			})
		},
	}
)

// runGitVerb loads the topology and drives one git workflow verb across
// every component repository, streaming attributed output as it goes.
func runGitVerb(ctx context.Context, verb func(context.Context, *gitops.Workflow, chan<- runtime.Line) error) error {
	cfg := loadConfig(ctx)
	logger := newLogger()

	topo, err := topology.Load(topologyFile)
	if err != nil {
		return err
	}

	lines := make(chan runtime.Line, 64)
	printer := runtime.NewPrinter(os.Stdout, topo.RepoComponents()...)
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		printer.Drain(lines)
	}()

	w := gitops.New(topo, &runtime.Executor{Grace: cfg.GracePeriod}, gitops.WithLogger(logger))
	verbErr := verb(ctx, w, lines)

	// The workflow has waited out every process, so no sends can race
	// the close.
	close(lines)
	<-printerDone

	if verbErr != nil {
		return &ExitError{Code: 1, Err: verbErr}
	}
	return nil
}
