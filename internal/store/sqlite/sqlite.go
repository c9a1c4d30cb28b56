// Package sqlite implements the store.Store interface backed by an embedded
// SQLite database. It is the default backend for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements store.Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements store.Store.
var _ store.Store = (*SQLiteStore)(nil)

// New opens (creating if needed) the SQLite database at path and runs any
// pending migrations. Pass MemoryPath for a throwaway database.
func New(path string) (*SQLiteStore, error) {
	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps an
	// in-memory database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendEmission(ctx context.Context, e *model.Emission) error {
	return queryAppendEmission(ctx, s.db, e)
}

func (s *SQLiteStore) ListEmissions(ctx context.Context) ([]*model.Emission, error) {
	return queryListEmissions(ctx, s.db)
}

func (s *SQLiteStore) LatestEmission(ctx context.Context) (*model.Emission, error) {
	return queryLatestEmission(ctx, s.db)
}

func (s *SQLiteStore) CountByBadge(ctx context.Context, badge model.Badge) (int, error) {
	return queryCountByBadge(ctx, s.db, badge)
}

// RunInTransaction runs fn inside a transaction, committing on success and
// rolling back when fn returns an error.
func (s *SQLiteStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Wrap("begin transaction", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return store.Wrap("commit transaction", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

var _ store.Store = (*txStore)(nil)

func (s *txStore) AppendEmission(ctx context.Context, e *model.Emission) error {
	return queryAppendEmission(ctx, s.tx, e)
}

func (s *txStore) ListEmissions(ctx context.Context) ([]*model.Emission, error) {
	return queryListEmissions(ctx, s.tx)
}

func (s *txStore) LatestEmission(ctx context.Context) (*model.Emission, error) {
	return queryLatestEmission(ctx, s.tx)
}

func (s *txStore) CountByBadge(ctx context.Context, badge model.Badge) (int, error) {
	return queryCountByBadge(ctx, s.tx, badge)
}

func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

func (s *txStore) Close() error {
	return nil
}
