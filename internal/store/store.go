// Package store persists food-assistance locations.
//
// Three backends implement core.Store: Memory for tests and dry runs, SQLite
// for single-node deployments and PostgreSQL via pgxpool. Every backend keeps
// titles unique, so a lost race between two title lookups surfaces as a per-row
// "unique constraint" failure rather than a duplicate record.
//
// Failures that affect every row (a closed pool, a refused connection) are
// wrapped with core.ErrStorageUnavailable so the importer aborts the run.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/fooddir/internal/config"
	"github.com/JonMunkholm/fooddir/internal/core"
)

// Backend is a core.Store that owns resources.
type Backend interface {
	core.Store
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// unavailable marks err as affecting the whole store.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, core.ErrStorageUnavailable, err)
}

// encodeJSON and decodeJSON move the list and hours columns in and out of
// text form for backends without native support.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

// nonNil keeps list fields as [] rather than null in JSON output.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
