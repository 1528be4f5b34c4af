package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// Open returns a read-only connection to the catalog database at path.
// It fails with *NotFoundError when the path is missing, is a directory, or
// does not hold a SQLite database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &NotFoundError{Path: path, Err: errors.New("path is a directory")}
	}

	uri, err := FileURI(path, "ro")
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	// One reader per export.
	db.SetMaxOpenConns(1)

	// sqlite only reports a bad header on the first real query
	var n int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		return nil, &NotFoundError{Path: path, Err: err}
	}
	return db, nil
}

// Reader reads catalog tables. The zero value is usable and logs nothing.
type Reader struct {
	Logger *zap.Logger
}

func (r *Reader) logger() *zap.Logger {
	if r == nil || r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Read returns every row of the model's table in storage order.
func (r *Reader) Read(ctx context.Context, model Model, path string) ([]Record, error) {
	var records []Record
	err := r.Scan(ctx, model, path, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Scan calls yield for each row of the model's table in storage order.
// If yield returns an error, iteration stops and that error is returned.
func (r *Reader) Scan(ctx context.Context, model Model, path string, yield func(Record) error) error {
	table, err := model.Table()
	if err != nil {
		return err
	}

	db, err := Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := tableExists(ctx, db, table)
	if err != nil {
		return fmt.Errorf("catalog: failed to inspect schema of %s: %w", path, err)
	}
	if !exists {
		return &SchemaError{Table: table, Path: path}
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return fmt.Errorf("catalog: failed to query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("catalog: failed to read columns of %s: %w", table, err)
	}
	index := columnIndex(columns)
	r.logger().Debug("reading catalog table",
		zap.String("model", model.String()),
		zap.String("table", table),
		zap.Strings("columns", columns),
	)

	raw := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("catalog: failed to scan row %d of %s: %w", count+1, table, err)
		}
		values := make([]string, len(raw))
		for i, v := range raw {
			values[i] = stringify(v)
		}
		if err := yield(Record{table: table, index: index, columns: columns, values: values}); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("catalog: failed to iterate %s: %w", table, err)
	}

	r.logger().Debug("finished catalog table", zap.String("table", table), zap.Int("rows", count))
	return nil
}

// Read uses a zero Reader.
func Read(ctx context.Context, model Model, path string) ([]Record, error) {
	return (&Reader{}).Read(ctx, model, path)
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
