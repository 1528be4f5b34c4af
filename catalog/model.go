// Package catalog reads rows from the SAT reference tables of a catalog
// database built from the phpcfdi resources archive.
package catalog

import (
	"fmt"
	"strings"
)

// Model identifies one logical SAT catalog.
type Model int

const (
	FormOfPayment Model = iota + 1
	UnitOfMeasure
	TaxSystem
	ProdServKey
	CFDIUse
	RelationshipType
)

type modelInfo struct {
	name  string // CLI name
	table string // physical table in the catalog database
	stem  string // template file stem
}

var models = map[Model]modelInfo{
	FormOfPayment:    {"FORM_OF_PAYMENT", "cfdi_40_formas_pago", "payment_forms"},
	UnitOfMeasure:    {"UNIT_OF_MEASURE", "cfdi_40_claves_unidades", "units_of_measure"},
	TaxSystem:        {"TAX_SYSTEM", "cfdi_40_regimenes_fiscales", "tax_systems"},
	ProdServKey:      {"PROD_SERV_KEY", "cfdi_40_productos_servicios", "product_service_keys"},
	CFDIUse:          {"CFDI_USE", "cfdi_40_usos_cfdi", "cfdi_uses"},
	RelationshipType: {"RELATIONSHIP_TYPE", "cfdi_40_tipos_relaciones", "relationship_types"},
}

// Models returns every known model in declaration order.
func Models() []Model {
	return []Model{FormOfPayment, UnitOfMeasure, TaxSystem, ProdServKey, CFDIUse, RelationshipType}
}

// ParseModel resolves a model by its name, ignoring case.
func ParseModel(name string) (Model, error) {
	for _, m := range Models() {
		if strings.EqualFold(models[m].name, strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return 0, &UnknownModelError{Name: name}
}

// String returns the model's CLI name.
func (m Model) String() string {
	if info, ok := models[m]; ok {
		return info.name
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Table returns the physical table name backing the model.
func (m Model) Table() (string, error) {
	info, ok := models[m]
	if !ok {
		return "", &UnknownModelError{Name: m.String()}
	}
	return info.table, nil
}

// Stem returns the file stem used for the model's templates and outputs.
func (m Model) Stem() string {
	return models[m].stem
}

// Valid reports whether m is one of the known models.
func (m Model) Valid() bool {
	_, ok := models[m]
	return ok
}
