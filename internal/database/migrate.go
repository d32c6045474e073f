package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Status describes the schema version of a database.
type Status struct {
	Version int64
	Pending bool
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies all pending migrations and returns the versions applied.
func Migrate(ctx context.Context, db *sql.DB) ([]int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// SchemaStatus reports the current schema version and whether migrations are pending.
func SchemaStatus(ctx context.Context, db *sql.DB) (Status, error) {
	provider, err := newProvider(db)
	if err != nil {
		return Status{}, err
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get database version: %w", err)
	}
	pending, err := provider.HasPending(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to check pending migrations: %w", err)
	}

	return Status{Version: version, Pending: pending}, nil
}
