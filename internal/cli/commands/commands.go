// Package commands implements the naevtools subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/cli/config"
	"github.com/perey/naevtools/internal/compiler"
)

// openDatabase opens the compiled database named by the config, with a hint
// when it has not been built yet.
func openDatabase(cmd *cobra.Command) (*compiler.Reader, *config.Config, error) {
	cfg := config.FromContext(cmd.Context())
	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("database not found at %s (run 'naevtools compile' first)", cfg.Database)
	}
	reader, err := compiler.OpenReader(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return reader, cfg, nil
}
