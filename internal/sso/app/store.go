package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store/drivers/jsonfile"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store/drivers/sqlite"
)

// OpenStore opens the store selected by cfg.StoreDriver and applies its
// migrations. The caller owns the returned store and must Close it.
func OpenStore(cfg Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.StoreDriver {
	case DriverJSONFile:
		st = jsonfile.NewStore(cfg.DataDir)
	case DriverSQLite:
		if dir := filepath.Dir(cfg.DatabaseFile); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		st, err = sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply store migrations: %w", err)
	}
	return st, nil
}
