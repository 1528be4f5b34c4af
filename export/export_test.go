package export_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/catalog/catalogtest"
	"github.com/darianmavgo/satcat/export"
	"github.com/darianmavgo/satcat/format"
	"github.com/darianmavgo/satcat/render"
)

func fixture(t *testing.T) string {
	t.Helper()
	keyText := []string{"id", "texto", "vigencia_desde", "vigencia_hasta"}
	return catalogtest.NewDatabase(t,
		catalogtest.Table{
			Name:    "cfdi_40_claves_unidades",
			Columns: []string{"id", "texto", "descripcion", "nota", "simbolo"},
			Rows: [][]string{
				{"H87", "Pieza", "Unidad de conteo; se usa para piezas", "", ""},
				{"KGM", "Kilogramo", "Una unidad de masa igual a mil gramos", "", "kg"},
				{"XBX", "Caja", "Tipo de embalaje: caja de 'cartón'", "", ""},
			},
		},
		catalogtest.Table{
			Name:    "cfdi_40_formas_pago",
			Columns: keyText,
			Rows: [][]string{
				{"01", "Efectivo", "2022-01-01", ""},
				{"02", "Cheque nominativo", "2022-01-01", ""},
			},
		},
		catalogtest.Table{
			Name:    "cfdi_40_regimenes_fiscales",
			Columns: keyText,
			Rows:    [][]string{{"601", "General de Ley Personas Morales", "2022-01-01", ""}},
		},
		catalogtest.Table{
			Name:    "cfdi_40_productos_servicios",
			Columns: keyText,
			Rows: catalogtest.Rows(3, func(i int) []string {
				return []string{fmt.Sprintf("0101010%d", i), strings.Repeat("Año ", 60), "2022-01-01", ""}
			}),
		},
		catalogtest.Table{
			Name:    "cfdi_40_usos_cfdi",
			Columns: keyText,
			Rows:    [][]string{{"G01", "Adquisición de mercancías", "2022-01-01", ""}},
		},
		catalogtest.Table{
			Name:    "cfdi_40_tipos_relaciones",
			Columns: keyText,
			Rows:    [][]string{{"01", "Nota de crédito de los documentos relacionados", "2022-01-01", ""}},
		},
	)
}

func TestExportDolibarrUnits(t *testing.T) {
	db := fixture(t)

	out, err := (&export.Exporter{Logger: zap.NewNop()}).Export(context.Background(), export.Request{
		Database: db,
		System:   format.Dolibarr,
		Model:    catalog.UnitOfMeasure,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "INSERT INTO llx_c_sat_units_of_measure (rowid, code, label, description, active) VALUES\n")
	assert.Contains(t, out, "    (1, 'H87', 'Pieza', 'Unidad de conteo, se usa para piezas', 0),\n")
	assert.Contains(t, out, "    (3, 'XBX', 'Caja', 'Tipo de embalaje: caja de \"cartón\"', 0);\n")
	assert.NotContains(t, out, render.Marker)
}

func TestExportDolibarrRelationshipTypes(t *testing.T) {
	out, err := export.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.Dolibarr,
		Model:    catalog.RelationshipType,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "    (1, '01', 'Nota de crédito de los documentos relacionados', 1);")
}

func TestExportOdooPaymentForms(t *testing.T) {
	out, err := export.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.Odoo,
		Model:    catalog.FormOfPayment,
	})
	require.NoError(t, err)
	assert.Equal(t, "id,code,name\npayment_form_01,01,\"Efectivo\"\npayment_form_02,02,\"Cheque nominativo\"\n", out)
}

func TestExportERPNextRoundTrip(t *testing.T) {
	out, err := export.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.ERPNext,
		Model:    catalog.UnitOfMeasure,
	})
	require.NoError(t, err)

	var objs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &objs))
	require.Len(t, objs, 3)
	assert.Equal(t, "H87 - Pieza", objs[0]["name"])
	assert.Equal(t, "Pieza", objs[0]["uom_name"])
	assert.Equal(t, "SAT UOM Key", objs[0]["doctype"])
	assert.Equal(t, "Tipo de embalaje: caja de 'cartón'", objs[2]["description"])
	assert.Contains(t, out, "cartón")
	assert.NotContains(t, out, `\u00f3`)
}

func TestExportERPNextProductServiceNames(t *testing.T) {
	out, err := export.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.ERPNext,
		Model:    catalog.ProdServKey,
	})
	require.NoError(t, err)

	var objs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &objs))
	require.Len(t, objs, 3)
	for _, obj := range objs {
		assert.Equal(t, format.NameLimit, utf8.RuneCountInString(obj["name"].(string)))
	}
}

func TestExportUnsupportedBeforeRead(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")

	_, err := export.Export(context.Background(), export.Request{
		Database: missing,
		System:   format.Odoo,
		Model:    catalog.RelationshipType,
	})
	var unsupported *format.UnsupportedModelError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, format.CSV, unsupported.Destination)
	assert.Equal(t, catalog.RelationshipType, unsupported.Model)

	var stageErr *export.Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, export.StageFormat, stageErr.Stage)

	var notFound *catalog.NotFoundError
	assert.False(t, errors.As(err, &notFound), "database should not be touched")
}

func TestExportMissingDatabase(t *testing.T) {
	_, err := export.Export(context.Background(), export.Request{
		Database: filepath.Join(t.TempDir(), "missing.db"),
		System:   format.Dolibarr,
		Model:    catalog.TaxSystem,
	})
	var notFound *catalog.NotFoundError
	require.ErrorAs(t, err, &notFound)

	var stageErr *export.Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, export.StageRead, stageErr.Stage)
}

func TestExportTemplateWithTwoMarkers(t *testing.T) {
	x := &export.Exporter{Templates: fstest.MapFS{
		"dolibarr/tax_systems.sql": {Data: []byte("__values__\n__values__\n")},
	}}

	out, err := x.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.Dolibarr,
		Model:    catalog.TaxSystem,
	})
	var tmplErr *render.TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Equal(t, 2, tmplErr.Count)
	assert.Empty(t, out)
}

func TestExportMissingTemplate(t *testing.T) {
	x := &export.Exporter{Templates: fstest.MapFS{}}

	_, err := x.Export(context.Background(), export.Request{
		Database: fixture(t),
		System:   format.Odoo,
		Model:    catalog.CFDIUse,
	})
	var tmplErr *render.TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Equal(t, "odoo/cfdi_uses.csv", tmplErr.Name)
}

func TestExportEmptyTable(t *testing.T) {
	db := catalogtest.NewDatabase(t, catalogtest.Table{
		Name:    "cfdi_40_usos_cfdi",
		Columns: []string{"id", "texto"},
	})
	x := &export.Exporter{Templates: fstest.MapFS{
		"dolibarr/cfdi_uses.sql": {Data: []byte("BEGIN\n__values__\nEND")},
	}}

	out, err := x.Export(context.Background(), export.Request{Database: db, System: format.Dolibarr, Model: catalog.CFDIUse})
	require.NoError(t, err)
	assert.Equal(t, "BEGIN\n;\nEND", out)

	out, err = x.Export(context.Background(), export.Request{Database: db, System: format.ERPNext, Model: catalog.CFDIUse})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "units.sql")
	require.NoError(t, export.WriteFile(path, "SELECT 1;"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", string(data))
}
