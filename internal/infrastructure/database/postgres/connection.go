// Package postgres manages the PostgreSQL connection pool and schema
// migrations backing the calendar and catalog stores.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

const pingTimeout = 5 * time.Second

// NewConnectionPool opens a pgx pool for cfg and verifies it with a ping.
func NewConnectionPool(ctx context.Context, cfg config.PostgresConfig, log logging.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid postgres connection settings")
	}
	configurePool(poolCfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create postgres pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres connection failed")
	}

	log.Info("connected to postgres",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}

func buildConnString(cfg config.PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)
}

// configurePool copies explicit pool settings; zero values keep pgx defaults.
func configurePool(poolCfg *pgxpool.Config, cfg config.PostgresConfig) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
}

// HealthCheck pings the pool and reports saturation.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, log logging.Logger) error {
	if err := pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres health check failed")
	}
	stat := pool.Stat()
	if stat.MaxConns() > 0 {
		usage := float64(stat.AcquiredConns()) / float64(stat.MaxConns())
		if usage > 0.8 {
			log.Warn("postgres pool nearly exhausted",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(stat.MaxConns())),
				logging.Float64("usage", usage))
		}
	}
	return nil
}

// Close releases the pool. A nil pool is ignored.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Transactions
// ─────────────────────────────────────────────────────────────────────────────

type txKey struct{}

// WithTransaction runs fn inside a transaction. When ctx already carries a
// transaction started by WithTransaction, fn runs in a savepoint of it. The
// transaction rolls back when fn returns an error or panics.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx, ctx context.Context) error) (err error) {
	var tx pgx.Tx
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		tx, err = outer.Begin(ctx)
	} else {
		tx, err = pool.Begin(ctx)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx, context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "commit transaction")
	}
	return nil
}

//Personal.AI order the ending
