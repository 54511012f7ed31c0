package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// renderResults renders query results in the specified format.
func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}

	var results [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	switch format {
	case "json":
		return renderJSON(w, columns, results)
	case "csv":
		return renderCSV(w, columns, results)
	case "md", "markdown":
		return renderMarkdown(w, columns, results)
	default:
		return renderTable(w, columns, results)
	}
}

func renderTable(w io.Writer, columns []string, results [][]any) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range results {
		tr := make(table.Row, len(row))
		for i, val := range row {
			tr[i] = formatValue(val)
		}
		t.AppendRow(tr)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

func renderJSON(w io.Writer, columns []string, results [][]any) error {
	out := make([]map[string]any, 0, len(results))
	for _, row := range results {
		m := make(map[string]any, len(columns))
		for i, col := range columns {
			m[col] = normaliseValue(row[i])
		}
		out = append(out, m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, columns []string, results [][]any) error {
	fmt.Fprintln(w, strings.Join(columns, ","))
	for _, row := range results {
		fields := make([]string, len(row))
		for i, val := range row {
			fields[i] = escapeCSVField(formatValue(val))
		}
		fmt.Fprintln(w, strings.Join(fields, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, columns []string, results [][]any) error {
	fmt.Fprintf(w, "| %s |\n", strings.Join(columns, " | "))

	seps := make([]string, len(columns))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range results {
		fields := make([]string, len(row))
		for i, val := range row {
			fields[i] = strings.ReplaceAll(formatValue(val), "|", "\\|")
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(fields, " | "))
	}
	return nil
}

// formatValue converts a database value to its display string.
func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normaliseValue prepares a database value for JSON encoding.
func normaliseValue(val any) any {
	if b, ok := val.([]byte); ok {
		return string(b)
	}
	return val
}

func escapeCSVField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// listTables lists all tables in the compiled database.
func listTables(cmd *cobra.Command, dbPath, format string) error {
	return executeAndRender(cmd.Context(), cmd, dbPath,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`, format)
}

// showSchema displays column information for a table.
func showSchema(cmd *cobra.Command, dbPath, tableName, format string) error {
	db, err := openDBReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var exists int
	err = db.QueryRowContext(cmd.Context(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		tableName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check table: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("table %q does not exist", tableName)
	}

	rows, err := db.QueryContext(cmd.Context(),
		fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(cmd.OutOrStdout(), rows, format)
}
