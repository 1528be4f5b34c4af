package format

import (
	"fmt"

	"github.com/darianmavgo/satcat/catalog"
)

// Odoo external ids are a per-model prefix plus the zero-padded row number.
var csvIDs = map[catalog.Model]string{
	catalog.UnitOfMeasure: "unit_of_measure_%04d",
	catalog.FormOfPayment: "payment_form_%02d",
	catalog.TaxSystem:     "tax_system_%02d",
	catalog.ProdServKey:   "prod_serv_key_%05d",
	catalog.CFDIUse:       "cfdi_use_%02d",
}

func init() {
	for model, idFormat := range csvIDs {
		Register(&Formatter{Destination: CSV, Model: model, Line: keyTextCSV(idFormat)})
	}
}

// CSVID returns the external id of the nth row of model.
func CSVID(model catalog.Model, n int) (string, error) {
	idFormat, ok := csvIDs[model]
	if !ok {
		return "", &UnsupportedModelError{Destination: CSV, Model: model}
	}
	return fmt.Sprintf(idFormat, n), nil
}

func keyTextCSV(idFormat string) LineFunc {
	return func(n int, rec catalog.Record) (string, error) {
		v, err := fields(rec, "id", "texto")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(idFormat, n) + "," + v[0] + "," + EscapeCSV(v[1]), nil
	}
}
