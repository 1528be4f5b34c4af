package format

import (
	"github.com/darianmavgo/satcat/catalog"
)

// NameLimit is the width of the ERPNext name field.
const NameLimit = 140

var jsonDoctypes = map[catalog.Model]string{
	catalog.UnitOfMeasure: "SAT UOM Key",
	catalog.FormOfPayment: "SAT Way To Pay",
	catalog.TaxSystem:     "SAT Tax Regime",
	catalog.ProdServKey:   "SAT Product or Service Key",
	catalog.CFDIUse:       "SAT CFDI Use",
}

func init() {
	Register(&Formatter{Destination: JSON, Model: catalog.UnitOfMeasure, Object: unitOfMeasureJSON})
	Register(&Formatter{Destination: JSON, Model: catalog.ProdServKey, Object: productServiceKeyJSON})
	for _, model := range []catalog.Model{catalog.FormOfPayment, catalog.TaxSystem, catalog.CFDIUse} {
		Register(&Formatter{Destination: JSON, Model: model, Object: keyTextJSON(jsonDoctypes[model])})
	}
}

func keyTextJSON(doctype string) ObjectFunc {
	return func(_ int, rec catalog.Record) (Object, error) {
		v, err := fields(rec, "id", "texto")
		if err != nil {
			return nil, err
		}
		return Object{
			"description": v[1],
			"doctype":     doctype,
			"enabled":     1,
			"key":         v[0],
			"name":        v[1],
		}, nil
	}
}

func unitOfMeasureJSON(_ int, rec catalog.Record) (Object, error) {
	v, err := fields(rec, "id", "texto", "descripcion")
	if err != nil {
		return nil, err
	}
	return Object{
		"description": v[2],
		"doctype":     jsonDoctypes[catalog.UnitOfMeasure],
		"enabled":     1,
		"key":         v[0],
		"name":        v[0] + " - " + v[1],
		"uom_name":    v[1],
	}, nil
}

func productServiceKeyJSON(_ int, rec catalog.Record) (Object, error) {
	v, err := fields(rec, "id", "texto")
	if err != nil {
		return nil, err
	}
	return Object{
		"description": v[1],
		"doctype":     jsonDoctypes[catalog.ProdServKey],
		"enabled":     1,
		"key":         v[0],
		"name":        Truncate(v[0]+" - "+v[1], NameLimit),
	}, nil
}
