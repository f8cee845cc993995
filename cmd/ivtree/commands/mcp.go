package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/mcp"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
	"github.com/Sumatoshi-tech/ivtree/pkg/version"
)

func newMCPCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server loads the configured dataset and exposes two tools:
  - interval_query: intervals intersecting a range or containing a point
  - interval_stats: shape of the interval tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.start(observability.ModeMCP)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			ix, err := a.loadIndex(cmd.Context())
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Index:   ix,
				Version: version.Version,
				Logger:  a.logger,
				Metrics: red,
				Tracer:  a.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
