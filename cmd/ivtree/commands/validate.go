package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
	"github.com/Sumatoshi-tech/ivtree/internal/render"
)

// ErrInvalidDataset is returned when a validated file has problems.
var ErrInvalidDataset = errors.New("dataset is invalid")

func newValidateCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a dataset file against the schema and interval bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			loadOpts, err := a.loadOptions()
			if err != nil {
				return err
			}

			loadOpts.ValidateSchema = true

			report := validateFile(args[0], loadOpts)

			err = a.renderer(cmd).Validation(report)
			if err != nil {
				return err
			}

			if !report.Valid {
				return fmt.Errorf("%w: %s", ErrInvalidDataset, args[0])
			}

			return nil
		},
	}
}

func validateFile(path string, opts dataset.LoadOptions) render.ValidationReport {
	report := render.ValidationReport{Path: path}

	set, err := dataset.Load(path, opts)
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			for _, v := range schemaErr.Violations {
				report.Problems = append(report.Problems, v.Field+": "+v.Description)
			}
		} else {
			report.Problems = append(report.Problems, err.Error())
		}

		return report
	}

	report.Intervals = len(set.Records)

	checkErr := set.Check()
	if checkErr != nil {
		report.Problems = append(report.Problems, splitJoined(checkErr)...)

		return report
	}

	if len(set.Records) == 0 {
		report.Problems = append(report.Problems, "dataset has no intervals")

		return report
	}

	fingerprint, err := dataset.Fingerprint(set)
	if err != nil {
		report.Problems = append(report.Problems, err.Error())

		return report
	}

	report.Valid = true
	report.Fingerprint = fingerprint

	return report
}

// splitJoined flattens an errors.Join result into one message per error.
func splitJoined(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}

	errs := joined.Unwrap()
	out := make([]string, len(errs))

	for i, e := range errs {
		out[i] = e.Error()
	}

	return out
}
