package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/render"
)

func newStatsCommand(opts *Options) *cobra.Command {
	var levels bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the shape of the interval tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withIndex(cmd, func(a *app, ix *index.Index) error {
				report := render.StatsReport{Fingerprint: ix.Fingerprint(), Stats: ix.Stats()}
				if levels {
					report.Levels = ix.Levels()
				}

				return a.renderer(cmd).Stats(report)
			})
		},
	}

	cmd.Flags().BoolVar(&levels, "levels", true, "include per-depth node and interval counts")

	return cmd
}
