package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/cli/config"
	"github.com/perey/naevtools/internal/compiler"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the data files into a SQLite database",
		Long: `Read every system and asset file under the data directory, resolve the
references between them, and write the result to a single SQLite database.

Compilation is all-or-nothing: if any file fails to parse or any reference
fails to resolve, the existing database is left untouched. Compiling the
same data twice produces byte-identical output.`,
		Example: `  # Compile ./dat into ./naev.db
  naevtools compile

  # Explicit paths
  naevtools compile --data-dir /path/to/naev/dat --database universe.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
				return fmt.Errorf("data directory does not exist: %s", cfg.DataDir)
			}

			start := time.Now()
			c := compiler.New(cfg.DataDir, cfg.Database, compiler.WithLogger(logger))
			if err := c.Run(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Compiled %s to %s in %s\n",
				cfg.DataDir, cfg.Database, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
