package render

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/format"
	"github.com/darianmavgo/satcat/templates"
)

func TestRenderSQL(t *testing.T) {
	tmpl := "INSERT INTO t (rowid, code) VALUES\n__values__\n-- end\n"
	got, err := Render("t.sql", tmpl, []string{"    (1, 'a')", "    (2, 'b')"}, format.SQL)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "INSERT INTO t (rowid, code) VALUES\n    (1, 'a'),\n    (2, 'b');\n-- end\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCSV(t *testing.T) {
	got, err := Render("t.csv", "id,code,name\n__values__\n", []string{"a,1,\"x\"", "b,2,\"y\""}, format.CSV)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if want := "id,code,name\na,1,\"x\"\nb,2,\"y\"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	tests := []struct {
		dest format.Destination
		want string
	}{
		{format.SQL, "head\n;\ntail"},
		{format.CSV, "head\n\ntail"},
	}
	for _, tt := range tests {
		got, err := Render("t", "head\n__values__\ntail", nil, tt.dest)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", tt.dest, err)
		}
		if got != tt.want {
			t.Errorf("Render(%s) = %q, want %q", tt.dest, got, tt.want)
		}
	}
}

func TestRenderMarkerCount(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		count int
	}{
		{"None", "INSERT INTO t VALUES\n", 0},
		{"Two", "__values__\n__values__\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render("bad.sql", tt.tmpl, []string{"x"}, format.SQL)
			var tmplErr *TemplateError
			if !errors.As(err, &tmplErr) {
				t.Fatalf("expected TemplateError, got %v", err)
			}
			if tmplErr.Count != tt.count {
				t.Errorf("Count = %d, want %d", tmplErr.Count, tt.count)
			}
			if got != "" {
				t.Errorf("expected no output, got %q", got)
			}
		})
	}
}

func TestRenderLeavesFragmentsAlone(t *testing.T) {
	got, err := Render("t", "[__values__]", []string{`a'b\c;`}, format.CSV)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != `[a'b\c;]` {
		t.Errorf("fragment was altered: %q", got)
	}
}

func TestRenderJSON(t *testing.T) {
	objs := []format.Object{
		{"key": "01", "name": "Año & <mes>", "enabled": 1},
		{"key": "02", "name": "Niño", "enabled": 1},
	}
	got, err := RenderJSON(objs)
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	want := `[
  {
    "enabled": 1,
    "key": "01",
    "name": "Año & <mes>"
  },
  {
    "enabled": 1,
    "key": "02",
    "name": "Niño"
  }
]`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderJSON mismatch (-want +got):\n%s", diff)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if len(parsed) != 2 || parsed[1]["name"] != "Niño" {
		t.Errorf("round trip mismatch: %v", parsed)
	}
}

func TestRenderJSONLineSeparators(t *testing.T) {
	objs := []format.Object{
		{"name": "a\u2028b\u2029c ñ"},
		{"name": `literal \u2028 text`},
	}
	got, err := RenderJSON(objs)
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	want := "[\n  {\n    \"name\": \"a\u2028b\u2029c ñ\"\n  },\n  {\n    \"name\": \"literal \\\\u2028 text\"\n  }\n]"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderJSON mismatch (-want +got):\n%s", diff)
	}

	var parsed []map[string]string
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if parsed[0]["name"] != "a\u2028b\u2029c ñ" || parsed[1]["name"] != `literal \u2028 text` {
		t.Errorf("round trip mismatch: %q", parsed)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	got, err := RenderJSON(nil)
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	if got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "odoo/missing.csv")
	var tmplErr *TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("expected TemplateError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, model := range catalog.Models() {
		for _, system := range format.Systems() {
			dest := system.Destination()
			if dest == format.JSON {
				continue
			}
			if _, err := format.Lookup(dest, model); err != nil {
				continue
			}
			name := Path(system, model.Stem())
			tmpl, err := Load(templates.FS(), name)
			if err != nil {
				t.Errorf("embedded template %s: %v", name, err)
				continue
			}
			if n := strings.Count(tmpl, Marker); n != 1 {
				t.Errorf("embedded template %s has %d markers", name, n)
			}
		}
	}
}

func TestPath(t *testing.T) {
	if got := Path(format.Dolibarr, "units_of_measure"); got != "dolibarr/units_of_measure.sql" {
		t.Errorf("Path = %q", got)
	}
	if got := Path(format.Odoo, "cfdi_uses"); got != "odoo/cfdi_uses.csv" {
		t.Errorf("Path = %q", got)
	}
}
