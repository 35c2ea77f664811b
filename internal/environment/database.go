package environment

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"gtr/internal/domain"
	"gtr/internal/migration"
)

// Supported database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

type dbKey struct{}

// DBKey is the domain.T value key under which Database publishes its *sql.DB
var DBKey = dbKey{}

// DB returns the database handle published by a Database environment, or nil
func DB(t *domain.T) *sql.DB {
	db, _ := t.Value(DBKey).(*sql.DB)
	return db
}

// DatabaseConfig describes the database a test run connects to
type DatabaseConfig struct {
	Driver string // "mysql" or "sqlite3"
	DSN    string
	// Name is the MySQL schema to create (if missing) and select. Ignored for SQLite.
	Name string
}

// Database opens a fresh connection before every test and closes it afterwards
type Database struct {
	cfg DatabaseConfig
	db  *sql.DB
}

// NewDatabase creates a Database environment
func NewDatabase(cfg DatabaseConfig) *Database {
	return &Database{cfg: cfg}
}

// Setup connects, makes sure the MySQL schema exists and publishes the handle
func (d *Database) Setup(ctx context.Context, t *domain.T) error {
	dsn := d.cfg.DSN
	switch d.cfg.Driver {
	case DriverMySQL:
		if d.cfg.Name != "" {
			var err error
			if dsn, err = migration.NewDatabaseManager().EnsureDatabase(ctx, dsn, d.cfg.Name); err != nil {
				return err
			}
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", d.cfg.Driver)
	}

	db, err := sql.Open(d.cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", d.cfg.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping %s database: %w", d.cfg.Driver, err)
	}

	d.db = db
	t.SetValue(DBKey, db)
	return nil
}

// Teardown closes the connection opened by Setup
func (d *Database) Teardown(_ context.Context, t *domain.T) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	t.SetValue(DBKey, nil)
	if err != nil {
		return fmt.Errorf("failed to close %s database: %w", d.cfg.Driver, err)
	}
	return nil
}
