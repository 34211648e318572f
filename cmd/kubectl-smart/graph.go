package main

import (
	"github.com/spf13/cobra"

	"github.com/kubectl-smart/kubectl-smart/internal/orchestrator"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

func newGraphCommand() *cobra.Command {
	var namespace string
	var upstream, downstream, endpoints bool

	cmd := &cobra.Command{
		Use:   "graph <kind> <name>",
		Short: "Render a resource's dependency graph and its blast radius",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := orchestrator.GraphRequest{
				Kind: args[0], Namespace: namespace, Name: args[1],
				Upstream: upstream, Downstream: downstream, IncludeEndpoints: endpoints,
			}
			run := func() (*render.Envelope, orchestrator.ExitCode, error) {
				return orch.Graph(cmd.Context(), req)
			}
			return runCommand(cmd, run)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "namespace of the subject resource")
	cmd.Flags().BoolVar(&upstream, "upstream", false, "restrict the graph to ancestors of the subject")
	cmd.Flags().BoolVar(&downstream, "downstream", false, "restrict the graph to descendants of the subject")
	cmd.Flags().BoolVar(&endpoints, "endpoints", false, "also resolve Service selects edges through Endpoints objects, in addition to label-selector matching")
	return cmd
}
