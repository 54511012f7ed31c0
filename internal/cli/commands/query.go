package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perey/naevtools/internal/cli/config"

	// sqlite driver for direct database queries.
	_ "modernc.org/sqlite"
)

// openDBReadOnly opens the compiled database in read-only mode for raw SQL.
func openDBReadOnly(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the compiled database",
		Long: `Execute SQL queries against the compiled database to inspect systems,
assets, jumps, and presence data. Supports multiple output formats for
scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  naevtools query "SELECT name, radius FROM systems ORDER BY radius DESC"

  # List available tables
  naevtools query tables

  # Show schema for a table
  naevtools query schema systems

  # Output as JSON
  naevtools query "SELECT * FROM metadata" --format json

  # Interactive mode
  naevtools query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func databasePath(cmd *cobra.Command) (string, error) {
	cfg := config.FromContext(cmd.Context())
	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		return "", fmt.Errorf("database not found at %s (run 'naevtools compile' first)", cfg.Database)
	}
	return cfg.Database, nil
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	dbPath, err := databasePath(cmd)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("format") {
		if cfg := config.FromContext(cmd.Context()); cfg.OutputFormat != "" {
			opts.Format = cfg.OutputFormat
		}
	}

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, dbPath, opts)
	}

	return executeAndRender(cmd.Context(), cmd, dbPath, sqlQuery, opts.Format)
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, dbPath, sqlQuery, format string) error {
	db, err := openDBReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(cmd.OutOrStdout(), rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List all tables in the compiled database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}
			return listTables(cmd, dbPath, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := databasePath(cmd)
			if err != nil {
				return err
			}
			return showSchema(cmd, dbPath, args[0], opts.Format)
		},
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
