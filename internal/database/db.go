// Package database provides database connection management.
package database

import (
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/LeDat98/Drip/internal/config"
	"github.com/LeDat98/Drip/schemas"
)

// Open opens the SQLite card store at the configured path. The file is
// created on first use.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path,
	)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	// A single connection avoids SQLITE_BUSY between the watch loop and
	// ad hoc commands sharing the store file.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Migrate applies every embedded migration in lexical order. All
// statements are idempotent, so reopening an existing store is safe.
func Migrate(db *sqlx.DB) error {
	names, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob() > %w", err)
	}

	for _, name := range names {
		content, err := schemas.Migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("schemas.Migrations.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("db.Exec(%s) > %w", name, err)
		}
	}
	return nil
}
