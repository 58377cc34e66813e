// Package database selects and opens the concrete store backend the DSN in
// configuration points at.
package database

import (
	"context"
	"fmt"

	"github.com/saltbo/cedictx/internal/infrastructure/config"
	"github.com/saltbo/cedictx/internal/store"
	"github.com/saltbo/cedictx/internal/store/postgres"
	"github.com/saltbo/cedictx/internal/store/sqlite"
)

// NewStore opens the backend the configured driver names, ensures the schema
// exists, and returns the store plus its cleanup function.
func NewStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database dsn: %w", err)
	}

	var (
		s       store.Store
		cleanup func()
	)
	switch driver {
	case "postgres":
		ps, pc, perr := postgres.Connect(dsn, cfg.Database.LogSQL)
		if perr != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", perr)
		}
		s, cleanup = ps, pc
	case "sqlite3":
		ss, sc, serr := sqlite.Open(dsn)
		if serr != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", serr)
		}
		s, cleanup = ss, sc
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := s.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}
