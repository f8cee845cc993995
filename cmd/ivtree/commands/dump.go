package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivtree/internal/index"
)

func newDumpCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the tree, one node per line, with the intervals each node holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withIndex(cmd, func(a *app, ix *index.Index) error {
				a.renderer(cmd).Dump(ix.Tree())

				return nil
			})
		},
	}
}
