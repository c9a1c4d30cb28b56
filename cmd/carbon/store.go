package main

import (
	"fmt"

	"github.com/alfredjeanlab/carbon/internal/config"
	"github.com/alfredjeanlab/carbon/internal/store"
	"github.com/alfredjeanlab/carbon/internal/store/postgres"
	"github.com/alfredjeanlab/carbon/internal/store/sqlite"
)

// openStore opens the backend named by a CARBON_DATABASE_URL value.
func openStore(databaseURL string) (store.Store, error) {
	driver, dsn, err := config.ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	var (
		st   store.Store
		oerr error
	)
	switch driver {
	case config.DriverPostgres:
		st, oerr = postgres.New(dsn)
	case config.DriverSQLite:
		st, oerr = sqlite.New(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if oerr != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, oerr)
	}
	return st, nil
}
