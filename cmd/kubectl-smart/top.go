package main

import (
	"github.com/spf13/cobra"

	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

func newTopCommand() *cobra.Command {
	var horizon float64

	cmd := &cobra.Command{
		Use:   "top <namespace>",
		Short: "Forecast capacity pressure and certificate expiry for a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := horizon
			if !cmd.Flags().Changed("horizon") {
				h = float64(cfg.Forecast.DefaultHorizonHours)
			}
			req := orchestrator.TopRequest{Namespace: args[0], HorizonHours: h}
			run := func() (*render.Envelope, orchestrator.ExitCode, error) {
				return orch.Top(cmd.Context(), req)
			}
			return runCommand(cmd, run)
		},
	}
	cmd.Flags().Float64Var(&horizon, "horizon", 0, "forecast horizon in hours, must be in (0,168] (default from config; 0 or >168 is an error)")
	return cmd
}
