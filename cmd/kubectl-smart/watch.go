package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

// runFunc invokes one orchestrator pass for the command that owns it.
type runFunc func() (*render.Envelope, orchestrator.ExitCode, error)

// runCommand executes run once, rendering its result or reporting its
// fatal error, then (with --watch) keeps re-invoking run on --interval,
// printing only what changed since the previous pass.
func runCommand(cmd *cobra.Command, run runFunc) error {
	env, code, err := run()
	if err != nil {
		printFatal(err)
		exitCode = int(code)
		return nil
	}
	renderAndExit(env, code)

	if !flagWatch {
		return nil
	}
	return watchLoop(cmd, run, env)
}

func watchLoop(cmd *cobra.Command, run runFunc, prev *render.Envelope) error {
	interval := flagInterval
	if interval <= 0 {
		interval = 5
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	prevSignals := signalsOf(prev)
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			env, code, err := run()
			if err != nil {
				printFatal(err)
				exitCode = int(code)
				continue
			}
			cur := signalsOf(env)
			printDelta(prevSignals, cur)
			prevSignals = cur
			exitCode = int(code)
		}
	}
}

// signalsOf reduces an envelope's result to a set of keyed, human-readable
// signals so two runs can be diffed without re-deriving command-specific
// shapes at the diff site.
func signalsOf(env *render.Envelope) map[string]string {
	out := map[string]string{}
	switch r := env.Result.(type) {
	case render.DiagResult:
		for _, iss := range r.AllIssues {
			out[iss.Key()] = fmt.Sprintf("[%s] %s (%s)", iss.Severity, iss.Reason, iss.ResourceFullName)
		}
	case render.GraphResult:
		for _, n := range r.Nodes {
			out[n.UID] = fmt.Sprintf("%s/%s/%s: %s", n.Kind, n.Namespace, n.Name, n.Health)
		}
	case render.TopResult:
		for _, cw := range r.CapacityWarnings {
			out["capacity:"+cw.Resource+"/"+cw.Metric] = fmt.Sprintf("[%s] %s %s current=%.1f%%", cw.Severity, cw.Resource, cw.Metric, cw.CurrentPercent)
		}
		for _, cw := range r.CertificateWarnings {
			out["certificate:"+cw.Namespace+"/"+cw.Secret] = fmt.Sprintf("[%s] %s/%s expires %s", cw.Severity, cw.Namespace, cw.Secret, cw.ExpiresAt.Format("2006-01-02"))
		}
	}
	return out
}

// printDelta reports signals present now but not before (+), gone since
// before (-), and present in both with a different description (~).
func printDelta(prev, cur map[string]string) {
	for k, desc := range cur {
		if old, ok := prev[k]; !ok {
			fmt.Printf("+ %s\n", desc)
		} else if old != desc {
			fmt.Printf("~ %s\n", desc)
		}
	}
	for k, desc := range prev {
		if _, ok := cur[k]; !ok {
			fmt.Printf("- %s\n", desc)
		}
	}
}
