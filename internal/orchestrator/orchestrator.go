// Package orchestrator runs the diagnostic pipeline for every command:
// validate inputs, collect, parse, run the command-specific analysis, then
// hand the caller a rendered envelope and an exit code. Only the graph
// command builds the dependency graph; diag scores records directly and
// top forecasts from them. It never calls os.Exit or log.Fatal — that decision belongs
// to cmd/kubectl-smart alone.
package orchestrator

import (
	"errors"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/cache"
	"github.com/kubectl-smart/kubectl-smart/internal/collect"
	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/scoring"
)

// ExitCode is the process exit status a command should terminate with.
type ExitCode int

const (
	ExitOK       ExitCode = 0
	ExitWarning  ExitCode = 1
	ExitCritical ExitCode = 2
)

// Orchestrator holds everything a run needs that outlives a single command
// invocation: the cluster connection, the loaded weights table, and the
// forecast sample store.
type Orchestrator struct {
	Client         kubeclient.ClusterClient
	Scoring        *scoring.Engine
	Cache          *cache.Store
	Collect        collect.Options
	ClusterContext string
}

// New builds an Orchestrator. cacheStore may be nil, which disables
// cross-run trend history (every forecast falls back to insufficient_data).
func New(client kubeclient.ClusterClient, weights scoring.WeightsTable, cacheStore *cache.Store, opts collect.Options) *Orchestrator {
	return &Orchestrator{
		Client:         client,
		Scoring:        scoring.NewEngine(weights),
		Cache:          cacheStore,
		Collect:        opts,
		ClusterContext: client.CurrentContext(),
	}
}

// notesFromPartial turns collector-level partial failures into user-facing
// notes, one line per failure, keyed by the source that failed.
func notesFromPartial(partial []collect.PartialError) []string {
	var notes []string
	for _, p := range partial {
		notes = append(notes, string(p.Kind)+" collecting "+p.Source+": "+p.Message)
	}
	return notes
}

// inputError wraps a validation failure the same way every command's
// argument check does.
func inputError(component, msg string) *smarterrors.SmartError {
	return smarterrors.New(smarterrors.InputError, component, errors.New(msg))
}

var nowFunc = time.Now
