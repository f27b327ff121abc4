// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arifsetyawan/switch-repo-experiment/internal/app/run"
	"github.com/arifsetyawan/switch-repo-experiment/internal/config"
	"github.com/arifsetyawan/switch-repo-experiment/internal/container"
	"github.com/arifsetyawan/switch-repo-experiment/internal/linker"
	"github.com/arifsetyawan/switch-repo-experiment/internal/runtime"
	"github.com/arifsetyawan/switch-repo-experiment/pkg/topology"
)

var (
	// metricsAddr serves Prometheus metrics while the run lasts
	metricsAddr string
	// skipLinks disables library tree copying before launch
	skipLinks bool
	// engineOverride forces a specific container engine
	engineOverride string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Launch every component in the topology",
		Long: `Launch every component listed in the topology's execution order:
services from their working copies, containers through the detected
engine, libraries linked into their dependents beforehand.

The command streams attributed component output until every component
has stopped, or until Ctrl-C asks the whole run to shut down. A
component exiting nonzero is reported but never stops its neighbors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTopology(cmd.Context())
		},
	}
)

func init() {
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	runCmd.Flags().BoolVar(&skipLinks, "skip-links", false, "skip copying linked library trees before launching")
	runCmd.Flags().StringVar(&engineOverride, "engine", "", "container engine to use (auto, docker, podman)")
}

func runTopology(ctx context.Context) error {
	cfg := loadConfig(ctx)
	logger := newLogger()

	topo, err := topology.Load(topologyFile)
	if err != nil {
		return err
	}

	if !skipLinks {
		if err := linker.New(topo, logger).Sync(topo.Executions); err != nil {
			return fmt.Errorf("sync links: %w", err)
		}
	} else {
		logger.Debug("link sync skipped by flag")
	}

	executor := &runtime.Executor{Grace: cfg.GracePeriod}
	runners := []runtime.Runner{runtime.NewServiceRunner(executor)}

	pref := container.EngineType(cfg.ContainerEngine)
	if engineOverride != "" {
		pref = container.EngineType(engineOverride)
		if !pref.IsValid() {
			return fmt.Errorf("unknown container engine %q (use auto, docker, or podman)", engineOverride)
		}
	}
	engine, err := container.Detect(pref)
	switch {
	case err == nil:
		logger.Debug("container engine detected", "engine", engine.Name())
		runners = append(runners, runtime.NewContainerRunner(executor, engine, logger))
	case hasContainers(topo):
		return err
	default:
		logger.Debug("no container engine available; topology declares no containers")
	}

	opts := []run.Option{run.WithLogger(logger)}
	if metricsAddr != "" {
		collector := run.NewPromCollector()
		opts = append(opts, run.WithCollector(collector))
		stopMetrics := serveMetrics(logger, collector, metricsAddr)
		defer stopMetrics()
	}

	orch := run.New(topo, runtime.NewRegistry(runners...), opts...)
	logger.Debug("starting run", "id", orch.RunID(), "components", len(topo.Executions))

	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(report)
	if report.Failed() {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("%d component(s) failed to launch", len(report.LaunchFailures())),
		}
	}
	return nil
}

// loadConfig resolves app settings. A broken config surfaces as a warning
// and the run continues on defaults.
func loadConfig(ctx context.Context) *config.Config {
	cfg, path, err := config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		cfg = config.DefaultConfig()
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if path != "" && verbose {
		fmt.Fprintln(os.Stderr, VerboseStyle.Render("Using config file: "+path))
	}
	return cfg
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "switchrepo",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func hasContainers(topo *topology.Topology) bool {
	for _, name := range topo.Executions {
		if c, ok := topo.Components[name]; ok && c.Type == topology.KindContainer {
			return true
		}
	}
	return false
}

// serveMetrics exposes the collector on addr for the duration of the run.
// The returned func shuts the listener down.
func serveMetrics(logger *log.Logger, collector *run.PromCollector, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// printSummary renders one line per execution entry after the run ends.
func printSummary(report *run.Report) {
	fmt.Println()
	if report.Interrupted {
		fmt.Println(WarningStyle.Render("Run interrupted."))
	}
	for _, cr := range report.Components {
		switch {
		case cr.Skipped && cr.Kind == topology.KindLibrary:
			fmt.Printf("%s %s\n", VerboseStyle.Render("○"), VerboseStyle.Render(cr.Name+" skipped (library)"))
		case cr.Skipped:
			fmt.Printf("%s %s\n", VerboseStyle.Render("○"), VerboseStyle.Render(cr.Name+" not launched (interrupted)"))
		case cr.LaunchErr != nil:
			fmt.Printf("%s %s: %v\n", ErrorStyle.Render("✗"), cr.Name, cr.LaunchErr)
		case cr.Result.Err != nil:
			fmt.Printf("%s %s: %v\n", ErrorStyle.Render("✗"), cr.Name, cr.Result.Err)
		case cr.Result.Success():
			fmt.Printf("%s %s exited cleanly\n", SuccessStyle.Render("✓"), cr.Name)
		default:
			fmt.Printf("%s %s exited with code %d\n", WarningStyle.Render("!"), cr.Name, cr.Result.ExitCode)
		}
	}
}
