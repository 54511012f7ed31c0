package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/atlas"
	"github.com/perey/naevtools/internal/cli/config"
)

// NewAtlasCommand creates the atlas command.
func NewAtlasCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Generate an HTML atlas from the compiled database",
		Long: `Generate a browsable HTML atlas of the universe: an index page, a page
per star system, and a page per asset, cross-linked.

The output directory must not already exist; the atlas is always generated
from scratch so no stale page survives.`,
		Example: `  naevtools atlas
  naevtools atlas --out site/atlas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader, _, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = reader.Close() }()

			gen, err := atlas.NewGenerator(reader, atlas.WithLogger(config.GetLogger(cmd.Context())))
			if err != nil {
				return err
			}
			if err := gen.Generate(cmd.Context(), outDir); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Atlas written to %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "atlas", "Output directory for the atlas")
	return cmd
}
