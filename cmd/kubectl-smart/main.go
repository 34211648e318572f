// Command kubectl-smart is a read-only Kubernetes diagnostic CLI plugin.
// It is the only place in this module allowed to call os.Exit: every
// internal/* package returns errors and exit codes for this command to
// act on.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
)

// exitCode is set by whichever subcommand ran; main reads it after
// rootCmd.Execute returns successfully (a non-nil Execute error means the
// command never got far enough to set one, so that path exits critical
// directly).
var exitCode int

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printFatal(err)
		os.Exit(int(orchestrator.ExitCritical))
	}
	os.Exit(exitCode)
}
