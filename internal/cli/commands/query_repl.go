package commands

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// runQueryREPL starts an interactive SQL shell against the compiled database.
func runQueryREPL(cmd *cobra.Command, dbPath string, opts *QueryOptions) error {
	db, err := openDBReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	out := cmd.OutOrStdout()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "naevtools> ",
		HistoryFile:     filepath.Join(filepath.Dir(dbPath), ".naevtools_history"),
		AutoComplete:    newTableCompleter(cmd, db),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialise readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintf(out, "Connected to %s\n", dbPath)
	fmt.Fprintln(out, "Enter SQL statements terminated by ';', or '.help' for commands.")

	var buf strings.Builder
	for {
		prompt := "naevtools> "
		if buf.Len() > 0 {
			prompt = "      ...> "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buf.Reset()
			continue
		}
		if err != nil {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(cmd, dbPath, trimmed, opts); quit {
				break
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		if !strings.HasSuffix(trimmed, ";") {
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()

		if err := executeAndRender(cmd.Context(), cmd, dbPath, stmt, opts.Format); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	return nil
}

// handleDotCommand processes REPL dot commands, returning true on quit.
func handleDotCommand(cmd *cobra.Command, dbPath, line string, opts *QueryOptions) bool {
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  .tables          List tables")
		fmt.Fprintln(out, "  .schema <table>  Show table schema")
		fmt.Fprintln(out, "  .clear           Discard the current statement buffer")
		fmt.Fprintln(out, "  .quit            Exit the shell")
		fmt.Fprintln(out, "SQL statements must end with ';'.")
	case ".tables":
		if err := listTables(cmd, dbPath, opts.Format); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	case ".schema":
		if len(fields) < 2 {
			fmt.Fprintln(out, "Usage: .schema <table>")
			return false
		}
		if err := showSchema(cmd, dbPath, fields[1], opts.Format); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	case ".clear":
		fmt.Fprintln(out, "Statement buffer cleared.")
	default:
		fmt.Fprintf(out, "Unknown command %s (try .help)\n", fields[0])
	}
	return false
}

// newTableCompleter builds tab completion from the database's table names.
func newTableCompleter(cmd *cobra.Command, db *sql.DB) readline.AutoCompleter {
	var tables []readline.PrefixCompleterInterface

	rows, err := db.QueryContext(cmd.Context(),
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err == nil {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var name string
			if rows.Scan(&name) == nil {
				tables = append(tables, readline.PcItem(name))
			}
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("SELECT"),
		readline.PcItem("FROM", tables...),
		readline.PcItem("WHERE"),
		readline.PcItem("ORDER"),
		readline.PcItem("GROUP"),
		readline.PcItem("LIMIT"),
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", tables...),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
	)
}
