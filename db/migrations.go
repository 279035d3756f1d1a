package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

// Migrations ship inside the binary so start-up does not depend on the working directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationSource opens the embedded migrations as a golang-migrate source
func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return src, nil
}

// NewMigrator builds a migrator over the embedded migrations and the open database.
// Applied versions are tracked in schema_migrations.
func NewMigrator() (*migrate.Migrate, error) {
	if DB == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	src, err := migrationSource()
	if err != nil {
		return nil, err
	}
	driver, err := pgxmigrate.WithInstance(DB, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies pending migrations. Nothing to apply is not an error.
func RunMigrations(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// ApplyMigrations brings the schema up to the latest embedded version
func ApplyMigrations() error {
	m, err := NewMigrator()
	if err != nil {
		return err
	}
	if err := RunMigrations(m); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("✅ Migrations applied")
	return nil
}
