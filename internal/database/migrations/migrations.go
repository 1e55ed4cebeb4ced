// Package migrations holds the index schema as numbered golang-migrate files
// embedded in the binary.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

var (
	// ErrSchemaBehind means the database needs MigrateUp.
	ErrSchemaBehind = errors.New("database schema is behind this binary")
	// ErrSchemaAhead means the database was written by a newer binary.
	ErrSchemaAhead = errors.New("database schema is ahead of this binary")
)

// LatestVersion returns the highest migration version embedded in the binary.
func LatestVersion() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("reading migration files: %w", err)
	}
	defer src.Close()
	return lastVersion(src)
}

func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, err
		}
		v = next
	}
}

// CheckDBMigrationStatus returns nil when db is exactly at LatestVersion.
// Otherwise the error wraps ErrSchemaBehind or ErrSchemaAhead, or reports a
// dirty database left behind by a failed migration.
func CheckDBMigrationStatus(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	// m is not closed: that would close db, which the caller owns.
	return checkVersion(m)
}

func checkVersion(m *migrate.Migrate) error {
	latest, err := LatestVersion()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return fmt.Errorf("%w: no schema version", ErrSchemaBehind)
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return fmt.Errorf("database is dirty at version %d, a previous migration failed", version)
	case version < latest:
		return fmt.Errorf("%w: at version %d, want %d", ErrSchemaBehind, version, latest)
	case version > latest:
		return fmt.Errorf("%w: at version %d, binary knows %d", ErrSchemaAhead, version, latest)
	}
	return nil
}

// MigrateUp applies every pending migration. A database that is already
// current is left alone; one that is ahead of the binary is refused.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := checkVersion(m); errors.Is(err, ErrSchemaAhead) {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("reading migration files: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating sqlite3 migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}
