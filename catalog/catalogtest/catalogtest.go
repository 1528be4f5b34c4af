// Package catalogtest builds small catalog databases for tests.
package catalogtest

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// Table describes a fixture table: its columns and rows, all TEXT.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// NewDatabase writes the tables to a fresh SQLite file under t.TempDir and
// returns its path.
func NewDatabase(t testing.TB, tables ...Table) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalogs.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	for _, tb := range tables {
		defs := make([]string, len(tb.Columns))
		for i, c := range tb.Columns {
			defs[i] = c + " TEXT"
		}
		if _, err := db.Exec("CREATE TABLE " + tb.Name + " (" + strings.Join(defs, ", ") + ")"); err != nil {
			t.Fatalf("failed to create table %s: %v", tb.Name, err)
		}

		insert := "INSERT INTO " + tb.Name + " (" + strings.Join(tb.Columns, ", ") +
			") VALUES (" + strings.TrimSuffix(strings.Repeat("?,", len(tb.Columns)), ",") + ")"
		for _, row := range tb.Rows {
			args := make([]interface{}, len(row))
			for i, v := range row {
				args[i] = v
			}
			if _, err := db.Exec(insert, args...); err != nil {
				t.Fatalf("failed to insert into %s: %v", tb.Name, err)
			}
		}
	}
	return path
}

// Rows builds n rows from gen, which receives 1-based row numbers.
func Rows(n int, gen func(i int) []string) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = gen(i + 1)
	}
	return rows
}
