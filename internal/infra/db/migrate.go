package db

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed all:migrations/*
var migrationsFS embed.FS

// Migrate applies the embedded migrations for driver. Table names in the
// migration files carry a {ns} placeholder that is replaced with the
// namespace prefix on SQLite; on PostgreSQL the namespace becomes a schema.
func Migrate(driver, dsn, namespace string) error {
	dbURL, prefix, err := migrationURL(driver, dsn, namespace)
	if err != nil {
		return err
	}

	fsys := &templateFS{
		inner:        migrationsFS,
		replacements: map[string]string{"{ns}": prefix},
	}

	source, err := iofs.New(fsys, path.Join("migrations", driver))
	if err != nil {
		return fmt.Errorf("migrations: failed to create source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("migrations: failed to create instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: failed to run: %w", err)
	}

	return nil
}

func migrationURL(driver, dsn, namespace string) (dbURL, prefix string, err error) {
	switch driver {
	case "sqlite":
		dbURL = "sqlite://" + dsn
		if namespace != "" {
			dbURL += "?x-migrations-table=" + namespace + "_schema_migrations"
			prefix = namespace + "_"
		}
		return dbURL, prefix, nil
	case "postgres":
		dbURL = "pgx5" + strings.TrimPrefix(dsn, "postgres")
		if namespace == "" {
			return dbURL, "", nil
		}
		if err := ensureSchema(dsn, namespace); err != nil {
			return "", "", err
		}
		u, err := url.Parse(dbURL)
		if err != nil {
			return "", "", fmt.Errorf("migrations: failed to parse DSN: %w", err)
		}
		q := u.Query()
		q.Set("search_path", namespace)
		q.Set("x-migrations-table", fmt.Sprintf(`"%s"."schema_migrations"`, namespace))
		q.Set("x-migrations-table-quoted", "true")
		u.RawQuery = q.Encode()
		return u.String(), "", nil
	default:
		return "", "", fmt.Errorf("migrations: unsupported driver: %s", driver)
	}
}

// ensureSchema creates the PostgreSQL schema if it doesn't exist.
func ensureSchema(dsn, namespace string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("migrations: failed to open db for schema creation: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", namespace)); err != nil {
		return fmt.Errorf("migrations: failed to create schema: %w", err)
	}
	return nil
}

// templateFS wraps an fs.FS and replaces placeholders in .sql files.
type templateFS struct {
	inner        fs.FS
	replacements map[string]string
}

func (t *templateFS) Open(name string) (fs.File, error) {
	f, err := t.inner.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".sql") {
		return f, nil
	}

	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	for placeholder, value := range t.replacements {
		data = bytes.ReplaceAll(data, []byte(placeholder), []byte(value))
	}

	info, err := fs.Stat(t.inner, name)
	if err != nil {
		return nil, err
	}
	return &templateFile{Reader: bytes.NewReader(data), fileInfo: info}, nil
}

func (t *templateFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(t.inner, name)
}

type templateFile struct {
	*bytes.Reader
	fileInfo fs.FileInfo
}

func (f *templateFile) Stat() (fs.FileInfo, error) {
	return f.fileInfo, nil
}

func (f *templateFile) Close() error {
	return nil
}
