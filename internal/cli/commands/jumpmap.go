package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/jumpmap"
)

// NewJumpmapCommand creates the jumpmap command.
func NewJumpmapCommand() *cobra.Command {
	var (
		outFile string
		opts    = jumpmap.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "jumpmap",
		Short: "Render the jump network as an SVG map",
		Long: `Render every star system and the hyperspace jumps between them as an
SVG map. Two-way jumps are drawn as solid lines; one-way jumps as dashed
lines with an arrowhead showing the direction of travel.

The map is written to standard output unless --out is given.`,
		Example: `  naevtools jumpmap > map.svg
  naevtools jumpmap --out map.svg --system-colour gold`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader, _, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = reader.Close() }()

			var w io.Writer = cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("creating map file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			return jumpmap.Write(cmd.Context(), reader, w, opts)
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "Write the map to a file instead of stdout")
	cmd.Flags().Float64Var(&opts.Margin, "margin", opts.Margin, "Margin around the map edges")
	cmd.Flags().Float64Var(&opts.SystemSize, "system-size", opts.SystemSize, "Radius of each system dot")
	cmd.Flags().StringVar(&opts.SystemColour, "system-colour", opts.SystemColour, "Fill colour for system dots")
	cmd.Flags().StringVar(&opts.JumpColour, "jump-colour", opts.JumpColour, "Stroke colour for jump lines")
	cmd.Flags().StringVar(&opts.LabelColour, "label-colour", opts.LabelColour, "Colour for system labels")
	cmd.Flags().StringVar(&opts.LabelFont, "label-font", opts.LabelFont, "Font family for system labels")
	return cmd
}
