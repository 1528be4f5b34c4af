// Package builder creates the catalog database from the published SQL
// scripts.
package builder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/darianmavgo/satcat/catalog"
	"github.com/darianmavgo/satcat/fetch"
)

// ErrDatabaseExists is returned when the target exists and Overwrite is not set.
var ErrDatabaseExists = errors.New("database already exists")

// Script directories, executed in this order.
var scriptDirs = []string{"schemas", "data"}

// Options selects where the database goes and where its scripts come from.
type Options struct {
	Path      string
	Overwrite bool
	// SourceDir holds already extracted schemas/ and data/ directories.
	// When empty the archive is downloaded.
	SourceDir string
}

// ScriptError reports a script that SQLite rejected.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Builder builds catalog databases.
type Builder struct {
	Downloader    *fetch.Downloader
	ArchiveURL    string
	ArchivePrefix string
	// WorkDir receives the temporary extraction directory. Empty means the
	// system temp directory.
	WorkDir string
	Logger  *zap.Logger
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Build creates the database at opts.Path. A partially built database is
// removed on failure.
func (b *Builder) Build(ctx context.Context, opts Options) error {
	log := b.logger().With(zap.String("database", opts.Path))

	if _, err := os.Stat(opts.Path); err == nil {
		if !opts.Overwrite {
			return fmt.Errorf("%s: %w", opts.Path, ErrDatabaseExists)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", opts.Path, err)
	}

	source := opts.SourceDir
	if source == "" {
		if b.Downloader == nil {
			return errors.New("no source directory and no downloader")
		}
		tmp, err := os.MkdirTemp(b.WorkDir, "satcat-build-*")
		if err != nil {
			return fmt.Errorf("failed to create work dir: %w", err)
		}
		defer os.RemoveAll(tmp)

		if _, err := b.Downloader.Fetch(ctx, b.ArchiveURL, b.ArchivePrefix, tmp); err != nil {
			return err
		}
		source = tmp
	}

	var scripts []string
	for _, dir := range scriptDirs {
		entries, err := ListDir(filepath.Join(source, dir))
		if err != nil {
			return err
		}
		for _, name := range entries {
			if strings.HasSuffix(name, ".sql") {
				scripts = append(scripts, filepath.Join(source, dir, name))
			}
		}
	}
	log.Info("building database", zap.String("source", source), zap.Int("scripts", len(scripts)))

	if opts.Overwrite {
		if err := os.Remove(opts.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	if err := execScripts(ctx, opts.Path, scripts, log); err != nil {
		os.Remove(opts.Path)
		return err
	}

	log.Info("database built")
	return nil
}

func execScripts(ctx context.Context, path string, scripts []string, log *zap.Logger) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	uri, err := catalog.FileURI(path, "rwc")
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)

	for _, script := range scripts {
		if err := execScript(ctx, db, script); err != nil {
			return err
		}
		log.Debug("executed script", zap.String("script", script))
	}
	return nil
}

func execScript(ctx context.Context, db *sql.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		tx.Rollback()
		return &ScriptError{Path: path, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &ScriptError{Path: path, Err: err}
	}
	return nil
}

// ListDir returns the names of the regular files in dir in lexical order.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
