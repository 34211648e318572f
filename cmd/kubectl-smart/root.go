package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubectl-smart/kubectl-smart/internal/cache"
	"github.com/kubectl-smart/kubectl-smart/internal/collect"
	"github.com/kubectl-smart/kubectl-smart/internal/config"
	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/logging"
	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
	"github.com/kubectl-smart/kubectl-smart/internal/scoring"
)

// version is set at build time via -ldflags; the zero value still
// satisfies cobra's --version flag.
var version = "dev"

var (
	flagConfigPath string
	flagContext    string
	flagOutput     string
	flagDebug      bool
	flagWatch      bool
	flagInterval   int

	cfg    *config.Config
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "kubectl-smart",
	Short:             "Diagnose Kubernetes workloads without writing to the cluster",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path (default ~/.kube/kubectl-smart.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagContext, "context", "", "kube context to use instead of the current one")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output format: text|json (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "print error kind and source component on failure")
	rootCmd.PersistentFlags().BoolVar(&flagWatch, "watch", false, "re-run on an interval, printing only the delta after the first run")
	rootCmd.PersistentFlags().IntVar(&flagInterval, "interval", 5, "seconds between --watch iterations")

	rootCmd.AddCommand(newDiagCommand(), newGraphCommand(), newTopCommand())
}

// setup runs once per invocation, before any subcommand: it loads
// configuration, builds the cluster connection, and assembles the
// Orchestrator every subcommand shares.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfigPath, nil)
	if err != nil {
		return err
	}
	cfg = loaded

	if flagOutput == "" {
		flagOutput = cfg.Output.DefaultFormat
	}

	level := cfg.Logging.Level
	if flagDebug {
		level = "debug"
	}
	logger = logging.New(level)

	weights, err := scoring.LoadWeights(cfg.Scoring.WeightsFile)
	if err != nil {
		return smarterrors.New(smarterrors.InputError, "scoring", err)
	}

	var cacheStore *cache.Store
	store, err := cache.NewStore(cfg.Forecast.CacheDir)
	if err != nil {
		logger.Warn("forecast cache disabled", "error", err)
	} else {
		cacheStore = store
	}

	client, err := kubeclient.New("", flagContext)
	if err != nil {
		return smarterrors.New(smarterrors.Unavailable, "kubeclient", err)
	}

	opts := collect.Options{
		MaxConcurrent:    cfg.Performance.MaxConcurrentCollectors,
		CollectorTimeout: durationFromSeconds(cfg.Performance.CollectorTimeoutSeconds),
		RunTimeout:       durationFromSeconds(cfg.Performance.RunTimeoutSeconds),
	}
	orch = orchestrator.New(client, weights, cacheStore, opts)
	logger.Debug("orchestrator ready", "context", orch.ClusterContext)
	return nil
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// renderAndExit prints env in the configured output format and records
// the process exit code the command should terminate with.
func renderAndExit(env *render.Envelope, code orchestrator.ExitCode) {
	printEnvelope(env)
	exitCode = int(code)
}

func printEnvelope(env *render.Envelope) {
	if flagOutput == "json" {
		b, err := render.JSON(*env)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: render json:", err)
			exitCode = int(orchestrator.ExitCritical)
			return
		}
		fmt.Println(string(b))
		return
	}
	fmt.Print(render.Text(*env, render.TextOptions{
		Color:      cfg.Output.ColorsEnabled,
		MaxDisplay: cfg.Output.MaxDisplayIssues,
	}))
}

// printFatal reports an error that aborted the pipeline before any
// envelope was produced: a single-line cause, plus a remediation hint and
// (in --debug) the error kind and source component.
func printFatal(err error) {
	se, ok := err.(*smarterrors.SmartError)
	if !ok {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	fmt.Fprintln(os.Stderr, "error:", se.Err)
	if se.Hint != "" {
		fmt.Fprintln(os.Stderr, "hint:", se.Hint)
	}
	if flagDebug {
		fmt.Fprintf(os.Stderr, "kind=%s component=%s\n", se.Kind, se.Component)
	}
}
