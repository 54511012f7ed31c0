package commands

import (
	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/ranges"
)

// NewRangesCommand creates the ranges command.
func NewRangesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "Summarize the ranges of key system statistics",
		Long: `Report the mean, standard deviation, and extremes of the key system
statistics: radius, nebula density and volatility, interference, and
star count. The systems holding each extreme are named.`,
		Example: `  naevtools ranges
  naevtools ranges --format prose
  naevtools ranges --format csv > ranges.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader, cfg, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = reader.Close() }()

			if !cmd.Flags().Changed("format") && cfg.OutputFormat != "" {
				format = cfg.OutputFormat
			}

			stats, err := ranges.Collect(cmd.Context(), reader)
			if err != nil {
				return err
			}
			return ranges.Render(cmd.OutOrStdout(), stats, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv, prose")
	return cmd
}
