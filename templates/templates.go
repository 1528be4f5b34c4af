// Package templates ships the default Dolibarr and Odoo templates. Each file
// holds a single __values__ marker where the formatted rows go.
package templates

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed dolibarr/*.sql odoo/*.csv
var files embed.FS

// FS returns the embedded templates.
func FS() fs.FS {
	return files
}

// Dir returns the templates under dir, or the embedded set when dir is empty.
func Dir(dir string) fs.FS {
	if dir == "" {
		return files
	}
	return os.DirFS(dir)
}
