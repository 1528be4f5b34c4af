package catalog

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FileURI returns a SQLite URI filename for path with the given open mode
// ("ro", "rw" or "rwc"). The path is made absolute and percent-escaped, so
// names holding '?', '#' or '%' still address the same file.
func FileURI(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths: file:///C:/...
		p = "/" + p
	}
	u := &url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}
	return u.String(), nil
}
