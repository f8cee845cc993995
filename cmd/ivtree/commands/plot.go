package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/render"
)

const defaultPlotFile = "ivtree.html"

func newPlotCommand(opts *Options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write an HTML chart of node and interval counts per tree depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withIndex(cmd, func(a *app, ix *index.Index) (err error) {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create plot: %w", err)
				}

				defer func() {
					err = errors.Join(err, file.Close())
				}()

				err = render.Plot(file, filepath.Base(a.cfg.Dataset.Path), ix.Levels())
				if err != nil {
					return err
				}

				a.logger.InfoContext(cmd.Context(), "plot written", "path", out)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", defaultPlotFile, "output HTML file")

	return cmd
}
