package commands

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/config"
	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
)

const (
	defaultGenerateCount    = 1000
	defaultGenerateSpan     = 10000.0
	defaultGenerateMaxWidth = 100.0
	defaultGenerateSeed     = 1
)

// Generate flag validation errors.
var (
	ErrNegativeCount = errors.New("--count must not be negative")
	ErrInvalidBound  = errors.New("must be a finite, non-negative number")
)

func validateGenerateFlags(count int, span, maxWidth float64) error {
	if count < 0 {
		return ErrNegativeCount
	}

	for _, flag := range []struct {
		name  string
		value float64
	}{{"--span", span}, {"--max-width", maxWidth}} {
		if !(flag.value >= 0) || math.IsInf(flag.value, 0) {
			return fmt.Errorf("%s %v: %w", flag.name, flag.value, ErrInvalidBound)
		}
	}

	return nil
}

func newGenerateCommand(opts *Options) *cobra.Command {
	var (
		count    int
		span     float64
		maxWidth float64
		seed     uint64
		out      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a reproducible random dataset",
		Long: `Write a reproducible random dataset. The file format follows the --out
extension (.json, .yaml, .yml, optionally followed by .lz4). Without --out
the dataset is printed to stdout as YAML, or JSON with -o json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := validateGenerateFlags(count, span, maxWidth)
			if err != nil {
				return err
			}

			a, err := opts.start(observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			set := dataset.Generate(count, span, maxWidth, seed)

			if out != "" {
				err = dataset.Save(out, set)
				if err != nil {
					return err
				}

				a.logger.InfoContext(cmd.Context(), "dataset written", "path", out, "intervals", count)

				return nil
			}

			var codec dataset.Codec = dataset.NewYAMLCodec()
			if a.cfg.Output.Format == config.FormatJSON {
				codec = dataset.NewJSONCodec()
			}

			return codec.Encode(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().IntVar(&count, "count", defaultGenerateCount, "number of intervals")
	cmd.Flags().Float64Var(&span, "span", defaultGenerateSpan, "lows are drawn from [0, span)")
	cmd.Flags().Float64Var(&maxWidth, "max-width", defaultGenerateMaxWidth, "widths are drawn from [0, max-width)")
	cmd.Flags().Uint64Var(&seed, "seed", defaultGenerateSeed, "random seed")
	cmd.Flags().StringVar(&out, "out", "", "output file")

	return cmd
}
