package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// MigrationState is the schema version recorded by golang-migrate.
type MigrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the SQL files under the configured migrations path.
type Migrator struct {
	dbURL  string
	source string
	logger logging.Logger
	// open is swapped in tests.
	open func(source, dbURL string) (migrator, error)
}

// migrator is the subset of *migrate.Migrate used here.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(v int) error
	Close() (error, error)
}

// NewMigrator builds a Migrator for cfg.
func NewMigrator(cfg config.PostgresConfig, log logging.Logger) *Migrator {
	return &Migrator{
		dbURL:  buildConnString(cfg),
		source: cfg.MigrationsPath,
		logger: log,
		open: func(source, dbURL string) (migrator, error) {
			return migrate.New(source, dbURL)
		},
	}
}

func (m *Migrator) with(fn func(migrator) error) error {
	mg, err := m.open(m.source, m.dbURL)
	if err != nil {
		return fmt.Errorf("migrate: open %s: %w", m.source, err)
	}
	defer mg.Close()
	return fn(mg)
}

// Up applies every pending migration. No pending migration is not an error.
func (m *Migrator) Up() error {
	return m.with(func(mg migrator) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate: up: %w", err)
		}
		st, err := state(mg)
		if err != nil {
			return err
		}
		m.logger.Info("schema migrated", logging.Int64("version", int64(st.Version)), logging.Bool("dirty", st.Dirty))
		return nil
	})
}

// Down rolls back steps migrations.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migrate: steps must be greater than 0, got %d", steps)
	}
	return m.with(func(mg migrator) error {
		if err := mg.Steps(-steps); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate: nothing to roll back")
			}
			return fmt.Errorf("migrate: down %d: %w", steps, err)
		}
		m.logger.Info("schema rolled back", logging.Int("steps", steps))
		return nil
	})
}

// Status reports the applied version. A fresh database reports version 0.
func (m *Migrator) Status() (MigrationState, error) {
	var st MigrationState
	err := m.with(func(mg migrator) error {
		var err error
		st, err = state(mg)
		return err
	})
	return st, err
}

// Force marks version as applied without running it, clearing a dirty flag.
func (m *Migrator) Force(version int) error {
	return m.with(func(mg migrator) error {
		if err := mg.Force(version); err != nil {
			return fmt.Errorf("migrate: force %d: %w", version, err)
		}
		m.logger.Warn("schema version forced", logging.Int("version", version))
		return nil
	})
}

func state(mg migrator) (MigrationState, error) {
	v, dirty, err := mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationState{}, nil
		}
		return MigrationState{}, fmt.Errorf("migrate: version: %w", err)
	}
	return MigrationState{Version: v, Dirty: dirty}, nil
}

//Personal.AI order the ending
