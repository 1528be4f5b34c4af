// Package render substitutes formatted rows into static templates and
// serializes JSON fixture arrays.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/darianmavgo/satcat/format"
)

// Marker is the placeholder replaced by the joined rows.
const Marker = "__values__"

// TemplateError is returned when a template is missing or does not hold
// exactly one marker.
type TemplateError struct {
	Name  string
	Count int
	Err   error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: template %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("render: template %s has %d %s markers, want exactly 1", e.Name, e.Count, Marker)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Render replaces the marker in tmpl with the fragments joined by the
// destination's separator. SQL output gets a trailing terminator. name only
// labels errors.
func Render(name, tmpl string, fragments []string, dest format.Destination) (string, error) {
	if n := strings.Count(tmpl, Marker); n != 1 {
		return "", &TemplateError{Name: name, Count: n}
	}

	var values string
	switch dest {
	case format.SQL:
		values = strings.Join(fragments, ",\n") + ";"
	case format.CSV:
		values = strings.Join(fragments, "\n")
	default:
		return "", &TemplateError{Name: name, Count: 1, Err: fmt.Errorf("%s output is not templated", dest)}
	}
	return strings.Replace(tmpl, Marker, values, 1), nil
}

// RenderJSON serializes objects as one indented JSON array. Non-ASCII
// (line and paragraph separators included) and HTML characters are written
// as they are.
func RenderJSON(objects []format.Object) (string, error) {
	if objects == nil {
		objects = []format.Object{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objects); err != nil {
		return "", fmt.Errorf("render: failed to encode JSON: %w", err)
	}
	return unescapeSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeSeparators turns the \u2028 and \u2029 escapes encoding/json always
// emits back into the literal characters. Escaped backslashes are skipped as
// pairs, so text that only looks like such an escape is left alone.
func unescapeSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch rest := s[i:]; {
		case strings.HasPrefix(rest, `\u2028`):
			b.WriteRune('\u2028')
			i += 5
		case strings.HasPrefix(rest, `\u2029`):
			b.WriteRune('\u2029')
			i += 5
		default:
			b.WriteString(s[i : i+2])
			i++
		}
	}
	return b.String()
}

// Path is where the template for a system and model stem lives inside a
// template filesystem.
func Path(system format.System, stem string) string {
	return string(system) + "/" + stem + system.Destination().Ext()
}

// Load reads a template from fsys.
func Load(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", &TemplateError{Name: name, Err: err}
	}
	return string(data), nil
}
