package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

// migrationsDir resolves the SQL migrations directory. An explicit
// DESK_MIGRATIONS_DIR wins; otherwise we probe relative to the working
// directory so both `desk-service migrate up` from the repo root and a
// binary launched from bin/ find them.
func migrationsDir() (string, error) {
	if dir := os.Getenv("DESK_MIGRATIONS_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve DESK_MIGRATIONS_DIR: %w", err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{
		filepath.Join(cwd, "database", "migrations"),
		filepath.Join(cwd, "..", "database", "migrations"),
	} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", errors.New("migrations directory not found, set DESK_MIGRATIONS_DIR")
}

// ensureDatabase creates the target database when it does not exist yet,
// connecting through the postgres maintenance database.
func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return errors.New("database url has no database name")
	}

	u.Path = "/postgres"
	admin, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	defer admin.Close()

	var n int
	err = admin.QueryRow("SELECT count(*) FROM pg_database WHERE datname = $1", name).Scan(&n)
	if err != nil {
		return fmt.Errorf("check database %q: %w", name, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := admin.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("create database %q: %w", name, err)
	}
	log.Printf("database: created %q", name)
	return nil
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	dir, err := migrationsDir()
	if err != nil {
		return nil, err
	}
	return migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
}

// MigrateUp creates the database if needed and applies every pending
// migration. A database already at the latest version is not an error.
func MigrateUp(databaseURL string) error {
	if err := ensureDatabase(databaseURL); err != nil {
		return err
	}
	m, err := newMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()
	if err := m.Up(); errors.Is(err, migrate.ErrNoChange) {
		log.Println("migrate: no pending migrations")
		return nil
	} else if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	log.Println("migrate: up ok")
	return nil
}

// MigrateVersion reports the current schema version and whether the last
// run left the schema dirty. A database with no applied migrations
// returns version 0.
func MigrateVersion(databaseURL string) (version uint, dirty bool, err error) {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return 0, false, fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
