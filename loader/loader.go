// Package loader applies a rendered Dolibarr script to a PostgreSQL
// Dolibarr database.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/darianmavgo/satcat/format"
)

// ErrNotLoadable is returned for systems whose output is not an SQL script.
var ErrNotLoadable = errors.New("output is not loadable")

// Check reports whether exports for system can be loaded.
func Check(system format.System) error {
	if system.Destination() != format.SQL {
		return fmt.Errorf("%s: %w", system, ErrNotLoadable)
	}
	return nil
}

// Loader executes scripts against PostgreSQL.
type Loader struct {
	Logger *zap.Logger
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Load runs script in a single transaction on the database at dsn.
func (l *Loader) Load(ctx context.Context, dsn, script string) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid dsn: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Host, err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	tag, err := tx.Exec(ctx, script)
	if err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	l.logger().Info("loaded script",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.String("last_command", tag.String()),
	)
	return nil
}

// Load uses a zero Loader.
func Load(ctx context.Context, dsn, script string) error {
	return (&Loader{}).Load(ctx, dsn, script)
}
