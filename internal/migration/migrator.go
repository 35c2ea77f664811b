package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator brings the run history schema up to date
type Migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
}

// SchemaMigrator applies the embedded history migrations to an open database
type SchemaMigrator struct {
	db     *sql.DB
	driver string
}

// NewSchemaMigrator creates a SchemaMigrator for a "mysql" or "sqlite3" handle
func NewSchemaMigrator(db *sql.DB, driver string) *SchemaMigrator {
	return &SchemaMigrator{db: db, driver: driver}
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (m *SchemaMigrator) Up() error {
	mg, err := m.migrate()
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the applied schema version
func (m *SchemaMigrator) Version() (uint, bool, error) {
	mg, err := m.migrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// migrate builds a migrate instance over the shared handle. It is never
// closed because closing it would close the caller's *sql.DB.
func (m *SchemaMigrator) migrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	switch m.driver {
	case "mysql":
		driver, err = migratemysql.WithInstance(m.db, &migratemysql.Config{})
	case "sqlite3":
		driver, err = migratesqlite3.WithInstance(m.db, &migratesqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", m.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, m.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}
