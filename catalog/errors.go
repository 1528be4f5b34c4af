package catalog

import "fmt"

// UnknownModelError is returned for a model name outside the known set.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("catalog: unknown model %q", e.Name)
}

// NotFoundError means the database file is missing, unreadable or not SQLite.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog: database %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("catalog: database %s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SchemaError means the database does not hold the table a model resolves to.
type SchemaError struct {
	Table string
	Path  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog: table %s does not exist in %s", e.Table, e.Path)
}

// MissingFieldError is returned by Record.Field for a column the table lacks.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("catalog: table %s has no column %q", e.Table, e.Field)
}
