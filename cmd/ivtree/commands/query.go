package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
)

// Query flag validation errors.
var (
	ErrMissingRange = errors.New("either --point or both --low and --high are required")
	ErrMixedQuery   = errors.New("--point cannot be combined with --low or --high")
)

func newQueryCommand(opts *Options) *cobra.Command {
	var low, high, point float64

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find intervals intersecting a range or containing a point",
		Example: `  ivtree query -d set.yaml --low 4 --high 9
  ivtree query -d set.yaml --point 6 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			hasPoint := flags.Changed("point")
			hasLow, hasHigh := flags.Changed("low"), flags.Changed("high")

			switch {
			case hasPoint && (hasLow || hasHigh):
				return ErrMixedQuery
			case !hasPoint && !(hasLow && hasHigh):
				return ErrMissingRange
			}

			return opts.withIndex(cmd, func(a *app, ix *index.Index) error {
				var records []dataset.Record
				if hasPoint {
					records = ix.Point(cmd.Context(), point)
				} else {
					records = ix.Query(cmd.Context(), low, high)
				}

				return a.renderer(cmd).Records(records)
			})
		},
	}

	cmd.Flags().Float64Var(&low, "low", 0, "lower bound of the closed query range")
	cmd.Flags().Float64Var(&high, "high", 0, "upper bound of the closed query range")
	cmd.Flags().Float64Var(&point, "point", 0, "single point to stab")

	return cmd
}
