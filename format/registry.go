package format

import (
	"fmt"
	"sort"
	"sync"

	"github.com/darianmavgo/satcat/catalog"
)

// LineFunc formats one record into a SQL tuple or CSV line. n is the
// 1-based position of the record in the export.
type LineFunc func(n int, rec catalog.Record) (string, error)

// ObjectFunc formats one record into a JSON fixture object.
type ObjectFunc func(n int, rec catalog.Record) (Object, error)

// Object is a single JSON fixture. encoding/json writes its keys sorted.
type Object map[string]interface{}

// Formatter formats the records of one model for one destination.
// SQL and CSV formatters set Line, JSON formatters set Object.
type Formatter struct {
	Destination Destination
	Model       catalog.Model
	Line        LineFunc
	Object      ObjectFunc
}

// Lines formats every record, numbering them from 1.
func (f *Formatter) Lines(records []catalog.Record) ([]string, error) {
	if f.Line == nil {
		return nil, fmt.Errorf("format: %s does not produce lines for %s", f.Destination, f.Model)
	}
	lines := make([]string, 0, len(records))
	for i, rec := range records {
		line, err := f.Line(i+1, rec)
		if err != nil {
			return nil, fmt.Errorf("format: row %d of %s: %w", i+1, f.Model, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Objects formats every record, numbering them from 1.
func (f *Formatter) Objects(records []catalog.Record) ([]Object, error) {
	if f.Object == nil {
		return nil, fmt.Errorf("format: %s does not produce objects for %s", f.Destination, f.Model)
	}
	objects := make([]Object, 0, len(records))
	for i, rec := range records {
		obj, err := f.Object(i+1, rec)
		if err != nil {
			return nil, fmt.Errorf("format: row %d of %s: %w", i+1, f.Model, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

type key struct {
	dest  Destination
	model catalog.Model
}

var (
	formattersMu sync.RWMutex
	formatters   = make(map[key]*Formatter)
)

// Register makes a formatter available for its (destination, model) pair.
// If Register is called twice for the same pair, or the formatter lacks the
// function its destination needs, it panics.
func Register(f *Formatter) {
	formattersMu.Lock()
	defer formattersMu.Unlock()
	if f == nil {
		panic("format: Register formatter is nil")
	}
	if f.Destination == JSON && f.Object == nil || f.Destination != JSON && f.Line == nil {
		panic(fmt.Sprintf("format: Register %s/%s without a formatting function", f.Destination, f.Model))
	}
	k := key{f.Destination, f.Model}
	if _, dup := formatters[k]; dup {
		panic(fmt.Sprintf("format: Register called twice for %s/%s", f.Destination, f.Model))
	}
	formatters[k] = f
}

// Lookup returns the formatter for the pair, or *UnsupportedModelError.
func Lookup(dest Destination, model catalog.Model) (*Formatter, error) {
	formattersMu.RLock()
	f, ok := formatters[key{dest, model}]
	formattersMu.RUnlock()
	if !ok {
		return nil, &UnsupportedModelError{Destination: dest, Model: model}
	}
	return f, nil
}

// Destinations returns the destinations that can render model, sorted.
func Destinations(model catalog.Model) []Destination {
	formattersMu.RLock()
	defer formattersMu.RUnlock()
	var list []Destination
	for k := range formatters {
		if k.model == model {
			list = append(list, k.dest)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// UnsupportedModelError is returned when no formatter exists for a pair.
type UnsupportedModelError struct {
	Destination Destination
	Model       catalog.Model
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("format: model %s is not supported for %s output", e.Model, e.Destination)
}

// fields reads the named columns of rec in order.
func fields(rec catalog.Record, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := rec.Field(name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
