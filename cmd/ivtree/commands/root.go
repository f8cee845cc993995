// Package commands implements the ivtree CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	ConfigPath  string
	DatasetPath string
	Output      string
	Verbose     bool
	Quiet       bool
}

// NewRootCommand creates the ivtree root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "ivtree",
		Short: "Static interval tree: build once, answer overlap queries fast",
		Long: `ivtree loads a dataset of named closed intervals, builds a static
interval tree over it and answers overlap and point queries.

Datasets are JSON or YAML files (optionally lz4-framed, e.g. set.yaml.lz4)
with a top-level "intervals" list of {name, low, high} records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default .ivtree.yaml in CWD or $HOME)")
	flags.StringVarP(&opts.DatasetPath, "dataset", "d", "", "dataset file (overrides dataset.path)")
	flags.StringVarP(&opts.Output, "output", "o", "", "output format: table, json or yaml (overrides output.format)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "log errors only")

	rootCmd.AddCommand(
		newQueryCommand(opts),
		newStatsCommand(opts),
		newDumpCommand(opts),
		newVerifyCommand(opts),
		newPlotCommand(opts),
		newValidateCommand(opts),
		newGenerateCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}
