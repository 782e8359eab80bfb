package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SourceDir is the directory of the migration files, relative to this package
const SourceDir = "sql"

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded item catalog schema
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

func databaseDriver(db *sql.DB, driver string) (database.Driver, error) {
	switch driver {
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{})
	}
	return nil, fmt.Errorf("unsupported migration driver %q", driver)
}

// New binds the embedded migrations to an open database of the given driver
func New(db *sql.DB, driver string, log *zap.Logger) (*Migrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	target, err := databaseDriver(db, driver)
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(migrationFiles, SourceDir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return nil, fmt.Errorf("init %s migrations: %w", driver, err)
	}
	return &Migrator{m: m, logger: log.Named("migrate")}, nil
}

// apply runs one migrate operation, treating ErrNoChange as success, and logs
// the resulting version.
func (m *Migrator) apply(op string, run func() error, fields ...zap.Field) error {
	m.logger.Info(op, fields...)
	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info(op+": nothing to do", fields...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(op+": done", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("migrate up", m.m.Up)
}

// Down reverts every applied migration
func (m *Migrator) Down() error {
	return m.apply("migrate down", m.m.Down)
}

// Steps moves n migrations forward, or back when n is negative
func (m *Migrator) Steps(n int) error {
	return m.apply("migrate steps", func() error { return m.m.Steps(n) }, zap.Int("steps", n))
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply("migrate goto", func() error { return m.m.Migrate(version) }, zap.Uint("target", version))
}

// Version reports the applied version. A fresh database is version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied and clears the dirty flag without running
// anything.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("forcing migration version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database driver
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
