package catalog

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a read-only view of one row. Columns are discovered from the
// table at query time, so field lookups are by name.
type Record struct {
	table   string
	index   map[string]int
	columns []string
	values  []string
}

// NewRecord builds a Record from parallel column and value slices.
// It is mostly useful for feeding formatters without a database.
func NewRecord(table string, columns []string, values []string) Record {
	return Record{
		table:   table,
		index:   columnIndex(columns),
		columns: columns,
		values:  values,
	}
}

// RecordFrom builds a Record from a field map. Column order follows keys.
func RecordFrom(table string, fields map[string]string, keys ...string) Record {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = fields[k]
	}
	return NewRecord(table, keys, values)
}

func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return idx
}

// Field returns the value of the named column.
func (r Record) Field(name string) (string, error) {
	i, ok := r.index[name]
	if !ok || i >= len(r.values) {
		return "", &MissingFieldError{Table: r.table, Field: name}
	}
	return r.values[i], nil
}

// Columns returns the discovered column names in table order.
func (r Record) Columns() []string {
	return r.columns
}

// Table returns the table the record was read from.
func (r Record) Table() string {
	return r.table
}

// stringify renders a scanned SQLite value as text.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
