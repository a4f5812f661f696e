// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the embedded users schema with golang-migrate.
//
// Migrations ship inside the binary, so the server and the seeder behave the
// same regardless of the working directory they are started from.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

// sourceName labels the io/fs source inside golang-migrate.
const sourceName = "iofs"

// ErrNoMigrations is returned when the source holds no migration files.
var ErrNoMigrations = errors.New("migration: no migration files found")

// RunUp applies every pending UP migration found at the root of files.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - files: Filesystem holding NNNNNN_name.up.sql / .down.sql pairs.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, files fs.FS, logger *slog.Logger) error {
	driver, latest, err := openSource(files)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance(sourceName, driver, pgx5DSN(dsn))
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, dbErr := migrator.Close()
		if sourceErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
		}
		if dbErr != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbErr))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	current, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: schema is dirty at version %d, fix it manually", current)
	}

	logger.Info("migration_started",
		slog.Uint64("current_version", uint64(current)),
		slog.Uint64("target_version", uint64(latest)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(current)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(current)),
		slog.Uint64("to_version", uint64(latest)),
	)
	return nil
}

// openSource loads the migration index and reports the newest version.
func openSource(files fs.FS) (source.Driver, uint, error) {
	driver, err := iofs.New(files, ".")
	if err != nil {
		return nil, 0, fmt.Errorf("migration: failed to read source: %w", err)
	}

	version, err := driver.First()
	if err != nil {
		_ = driver.Close()
		return nil, 0, ErrNoMigrations
	}
	for {
		next, err := driver.Next(version)
		if err != nil {
			break
		}
		version = next
	}

	return driver, version, nil
}

// pgx5DSN rewrites postgres URLs to the pgx5:// scheme the driver registers.
func pgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
