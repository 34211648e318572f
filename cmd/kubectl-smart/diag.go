package main

import (
	"github.com/spf13/cobra"

	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

func newDiagCommand() *cobra.Command {
	var namespace string
	var correlateLogs bool

	cmd := &cobra.Command{
		Use:   "diag <kind> <name>",
		Short: "Diagnose a resource and report its most likely root cause",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := orchestrator.DiagRequest{
				Kind: args[0], Namespace: namespace, Name: args[1], CorrelateLogs: correlateLogs,
			}
			run := func() (*render.Envelope, orchestrator.ExitCode, error) {
				return orch.Diag(cmd.Context(), req)
			}
			return runCommand(cmd, run)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "namespace of the subject resource")
	cmd.Flags().BoolVar(&correlateLogs, "correlate-logs", false, "boost issue scores when the reason also appears in a container's recent log tail")
	return cmd
}
