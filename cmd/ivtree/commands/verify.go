package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/render"
)

const (
	defaultVerifyQueries = 1000
	defaultVerifySeed    = 1
)

var (
	// ErrVerifyFailed is returned when any query disagrees with a linear scan.
	ErrVerifyFailed = errors.New("verification failed")
	// ErrNegativeQueries is returned for a negative --queries.
	ErrNegativeQueries = errors.New("--queries must not be negative")
)

func newVerifyCommand(opts *Options) *cobra.Command {
	var (
		queries int
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check random queries against a linear scan of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if queries < 0 {
				return ErrNegativeQueries
			}

			return opts.withIndex(cmd, func(a *app, ix *index.Index) error {
				ranges := ix.RandomRanges(queries, seed)

				mismatches, err := ix.Verify(cmd.Context(), ranges)
				if err != nil {
					return err
				}

				err = a.renderer(cmd).Verify(render.VerifyReport{Queries: len(ranges), Mismatches: mismatches})
				if err != nil {
					return err
				}

				if len(mismatches) > 0 {
					return fmt.Errorf("%w: %d of %d queries", ErrVerifyFailed, len(mismatches), len(ranges))
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&queries, "queries", defaultVerifyQueries, "number of random queries")
	cmd.Flags().Uint64Var(&seed, "seed", defaultVerifySeed, "random seed")

	return cmd
}
