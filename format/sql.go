package format

import (
	"fmt"
	"strings"

	"github.com/darianmavgo/satcat/catalog"
)

// Dolibarr rows end with a fixed active flag per model.
var sqlFlags = map[catalog.Model]int{
	catalog.FormOfPayment:    0,
	catalog.TaxSystem:        1,
	catalog.ProdServKey:      0,
	catalog.CFDIUse:          1,
	catalog.RelationshipType: 1,
}

func init() {
	Register(&Formatter{Destination: SQL, Model: catalog.UnitOfMeasure, Line: unitOfMeasureSQL})
	for model, flag := range sqlFlags {
		Register(&Formatter{Destination: SQL, Model: model, Line: keyTextSQL(flag)})
	}
}

// keyTextSQL formats `(n, 'id', 'texto', flag)`.
func keyTextSQL(flag int) LineFunc {
	return func(n int, rec catalog.Record) (string, error) {
		v, err := fields(rec, "id", "texto")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("    (%d, %s, %s, %d)", n, EscapeSQL(v[0]), EscapeSQL(v[1]), flag), nil
	}
}

// unitOfMeasureSQL also carries the long description. Semicolons in it become
// commas because the script uses them as statement terminators.
func unitOfMeasureSQL(n int, rec catalog.Record) (string, error) {
	v, err := fields(rec, "id", "texto", "descripcion")
	if err != nil {
		return "", err
	}
	description := strings.ReplaceAll(v[2], ";", ",")
	return fmt.Sprintf("    (%d, %s, %s, %s, 0)", n, EscapeSQL(v[0]), EscapeSQL(v[1]), EscapeSQL(description)), nil
}
