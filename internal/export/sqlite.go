package export

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pfrederiksen/volby-scraper/internal/election"
	_ "modernc.org/sqlite"
)

const tableName = "results"

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnNames returns the table's column names made unique under SQLite's
// case-insensitive identifier rules. A repeated name gets " (2)", " (3)", ...
func columnNames(t *election.Table) []string {
	header := t.Header()
	names := make([]string, 0, len(header))
	used := make(map[string]bool, len(header))
	for _, h := range header {
		name := h
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s (%d)", h, n)
		}
		used[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}

// WriteSQLite writes t into the results table of the database at path,
// replacing any previous contents. Fixed columns are TEXT, party columns
// INTEGER. Names that clash ignoring case are suffixed, see columnNames.
func WriteSQLite(path string, t *election.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	names := columnNames(t)
	columns := make([]string, 0, len(names))
	defs := make([]string, 0, len(names))
	for i, name := range names {
		columns = append(columns, quoteIdent(name))
		if i < len(t.Columns) {
			defs = append(defs, quoteIdent(name)+" TEXT")
		} else {
			defs = append(defs, quoteIdent(name)+" INTEGER NOT NULL DEFAULT 0")
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(tableName)); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(columns, ", "), placeholders)
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		args := make([]any, 0, len(columns))
		for _, c := range t.Columns {
			args = append(args, row.Fixed[c])
		}
		for _, p := range t.Parties {
			args = append(args, t.Votes(i, p))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
