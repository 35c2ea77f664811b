package migration

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

// DatabaseManager manages the MySQL schemas tests and history run against
type DatabaseManager struct{}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager() *DatabaseManager {
	return &DatabaseManager{}
}

// EnsureDatabase creates the named schema on the server dsn points at, if it
// does not exist yet, and returns a DSN that selects it.
func (dm *DatabaseManager) EnsureDatabase(ctx context.Context, dsn, name string) (string, error) {
	if !isValidDatabaseName(name) {
		return "", fmt.Errorf("invalid database name: %s", name)
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.DBName = ""

	// Connect to MySQL server (without specifying database)
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return "", fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := dm.databaseExists(ctx, db, name)
	if err != nil {
		return "", fmt.Errorf("failed to check database %s: %w", name, err)
	}
	if !exists {
		if err := dm.createDatabase(ctx, db, name); err != nil {
			return "", fmt.Errorf("failed to create database %s: %w", name, err)
		}
	}

	cfg.DBName = name
	return cfg.FormatDSN(), nil
}

// databaseExists checks if a database exists
func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func (dm *DatabaseManager) createDatabase(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	return err
}

var validDatabaseName = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// isValidDatabaseName only admits names that are safe to interpolate into DDL
func isValidDatabaseName(name string) bool {
	return validDatabaseName.MatchString(name)
}
