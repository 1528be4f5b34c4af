package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IllegalPathError reports an archive member that would land outside the
// extraction directory.
type IllegalPathError struct {
	Name string
}

func (e *IllegalPathError) Error() string {
	return fmt.Sprintf("illegal path in archive: %s", e.Name)
}

// Extract unpacks the members of the zip at archivePath whose names start
// with prefix into dir, with the prefix stripped. Other members are skipped.
func Extract(archivePath, prefix, dir string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer reader.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	var extracted []string
	for _, zf := range reader.File {
		if !strings.HasPrefix(zf.Name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(zf.Name, prefix)
		if rel == "" {
			continue
		}

		dest := filepath.Join(root, filepath.FromSlash(rel))
		if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return nil, &IllegalPathError{Name: zf.Name}
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", dest, err)
			}
			continue
		}

		if err := extractFile(zf, dest); err != nil {
			return nil, err
		}
		extracted = append(extracted, dest)
	}

	return extracted, nil
}

func extractFile(zf *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("failed to open file %s in zip: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", dest, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract file %s: %w", zf.Name, err)
	}
	return out.Close()
}
