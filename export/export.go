// Package export runs one catalog export: read the model's rows, format them
// for the target system and render the result.
package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/format"
	"github.com/darianmavgo/satcat/render"
	"github.com/darianmavgo/satcat/templates"
)

// Stage names the step of an export that failed.
type Stage string

const (
	StageFormat Stage = "format"
	StageRead   Stage = "read"
	StageRender Stage = "render"
)

// Error wraps the failure of one export stage. The cause stays reachable
// with errors.As.
type Error struct {
	Stage  Stage
	System format.System
	Model  catalog.Model
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s/%s: %s: %v", e.System, e.Model, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Request selects what to export.
type Request struct {
	Database string
	System   format.System
	Model    catalog.Model
}

// Exporter renders catalog exports. The zero value uses the embedded
// templates and logs nothing.
type Exporter struct {
	Templates fs.FS
	Logger    *zap.Logger
}

func (x *Exporter) logger() *zap.Logger {
	if x.Logger == nil {
		return zap.NewNop()
	}
	return x.Logger
}

func (x *Exporter) templateFS() fs.FS {
	if x.Templates == nil {
		return templates.FS()
	}
	return x.Templates
}

// Export returns the rendered SQL script, CSV file or JSON array.
// Unsupported (system, model) pairs fail before the database is opened.
func (x *Exporter) Export(ctx context.Context, req Request) (string, error) {
	log := x.logger().With(
		zap.String("system", string(req.System)),
		zap.String("model", req.Model.String()),
	)
	fail := func(stage Stage, err error) (string, error) {
		return "", &Error{Stage: stage, System: req.System, Model: req.Model, Err: err}
	}

	dest := req.System.Destination()
	f, err := format.Lookup(dest, req.Model)
	if err != nil {
		return fail(StageFormat, err)
	}

	var tmplName, tmpl string
	if dest != format.JSON {
		tmplName = render.Path(req.System, req.Model.Stem())
		if tmpl, err = render.Load(x.templateFS(), tmplName); err != nil {
			return fail(StageRender, err)
		}
	}

	reader := &catalog.Reader{Logger: log}
	records, err := reader.Read(ctx, req.Model, req.Database)
	if err != nil {
		return fail(StageRead, err)
	}
	log.Info("read catalog", zap.String("database", req.Database), zap.Int("rows", len(records)))

	if dest == format.JSON {
		objects, err := f.Objects(records)
		if err != nil {
			return fail(StageFormat, err)
		}
		out, err := render.RenderJSON(objects)
		if err != nil {
			return fail(StageRender, err)
		}
		return out, nil
	}

	lines, err := f.Lines(records)
	if err != nil {
		return fail(StageFormat, err)
	}
	out, err := render.Render(tmplName, tmpl, lines, dest)
	if err != nil {
		return fail(StageRender, err)
	}
	return out, nil
}

// Export uses a zero Exporter.
func Export(ctx context.Context, req Request) (string, error) {
	return (&Exporter{}).Export(ctx, req)
}

// WriteFile writes rendered output to path, creating parent directories.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
