// Package format turns catalog records into destination-specific literal
// fragments: SQL value tuples for Dolibarr, CSV lines for Odoo and JSON
// objects for ERPNext.
package format

import (
	"fmt"
	"strings"
)

// Destination is the output syntax a system consumes.
type Destination int

const (
	SQL Destination = iota + 1
	CSV
	JSON
)

func (d Destination) String() string {
	switch d {
	case SQL:
		return "sql"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Destination(%d)", int(d))
}

// Ext is the file extension of rendered output.
func (d Destination) Ext() string {
	return "." + d.String()
}

// System names a destination ERP.
type System string

const (
	Dolibarr System = "dolibarr"
	Odoo     System = "odoo"
	ERPNext  System = "erpnext"
)

var systems = map[System]Destination{
	Dolibarr: SQL,
	Odoo:     CSV,
	ERPNext:  JSON,
}

// Systems returns the known systems in a stable order.
func Systems() []System {
	return []System{Dolibarr, Odoo, ERPNext}
}

// ParseSystem resolves a system by name, ignoring case.
func ParseSystem(name string) (System, error) {
	s := System(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := systems[s]; !ok {
		return "", &UnknownSystemError{Name: name}
	}
	return s, nil
}

// Destination returns the output syntax the system consumes.
func (s System) Destination() Destination {
	return systems[s]
}

// UnknownSystemError is returned for a system name outside the known set.
type UnknownSystemError struct {
	Name string
}

func (e *UnknownSystemError) Error() string {
	return fmt.Sprintf("format: unknown system %q", e.Name)
}
