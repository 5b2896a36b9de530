//go:build integration

// Integration tests for the PostgreSQL repositories. They require Docker.
package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// startPostgres launches a PostgreSQL 16 container, applies the migrations
// and returns a connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "prazo_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.PostgresConfig{
		Host: host, Port: port.Int(), User: "test", Password: "test", DBName: "prazo_test",
		SSLMode: "disable", MaxConns: 4, MigrationsPath: "file://../../../../../migrations",
	}
	require.NoError(t, postgres.NewMigrator(cfg, logging.NewNopLogger()).Up())

	pool, err := postgres.NewConnectionPool(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { postgres.Close(pool) })
	return pool
}

func d(s string) common.Date { return common.MustParseDate(s) }

func TestCalendarRepository(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewCalendarRepository(pool, logging.NewNopLogger())

	v0, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pg-0", v0)

	added, err := calendar.SeedNational(ctx, repo, 2025, 2026)
	require.NoError(t, err)
	assert.Equal(t, 20, added)

	require.NoError(t, repo.AddEntry(ctx, calendar.Entry{
		Date: d("2025-07-09"), Name: "Revolução Constitucionalista", Scope: calendar.ScopeEstadual, UF: "SP", SuspendsExpedient: true,
	}))
	require.NoError(t, repo.AddEntry(ctx, calendar.Entry{
		Date: d("2025-01-25"), Name: "Aniversário de São Paulo", Scope: calendar.ScopeMunicipal, CourtCode: "tj-sp", SuspendsExpedient: true,
	}))
	require.NoError(t, repo.AddSuspension(ctx, calendar.SuspensionPeriod{
		Start: d("2025-12-20"), End: d("2026-01-06"), Kind: calendar.KindRecessoFimDeAno, CourtCode: "TJSP", SuspendsDeadlines: true,
	}))

	err = repo.AddEntry(ctx, calendar.Entry{
		Date: d("2025-12-25"), Name: "Natal (duplicado)", Scope: calendar.ScopeNacional, SuspendsExpedient: true,
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateEntry), "got %v", err)

	v1, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v0, v1)

	tjsp := calendar.Court{Code: "TJSP", UF: "SP", Tier: calendar.TierEstadual}
	tjmg := calendar.Court{Code: "TJMG", UF: "MG", Tier: calendar.TierEstadual}

	spDays, err := repo.Holidays(ctx, tjsp, d("2025-01-01"), d("2025-12-31"))
	require.NoError(t, err)
	mgDays, err := repo.Holidays(ctx, tjmg, d("2025-01-01"), d("2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, spDays, 12)
	assert.Len(t, mgDays, 10)

	spSusp, err := repo.Suspensions(ctx, tjsp)
	require.NoError(t, err)
	mgSusp, err := repo.Suspensions(ctx, tjmg)
	require.NoError(t, err)
	assert.Len(t, spSusp, len(mgSusp)+1)

	snap, err := calendar.LoadSnapshot(ctx, repo, tjsp, d("2025-01-01"), d("2026-12-31"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayRecesso, snap.Classify(d("2025-12-22")))
	assert.Equal(t, calendar.DayFeriado, snap.Classify(d("2025-07-09")))

	// Reseeding adds nothing and keeps the version.
	added, err = calendar.SeedNational(ctx, repo, 2025, 2026)
	require.NoError(t, err)
	assert.Zero(t, added)
	v2, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestCatalogRepository(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := repositories.NewCatalogRepository(pool, logging.NewNopLogger())

	seed := catalog.SeedEntries()
	require.NoError(t, repo.Upsert(ctx, seed))
	require.NoError(t, repo.Upsert(ctx, seed[:1]))

	loaded, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(seed))

	cat, err := catalog.New(loaded)
	require.NoError(t, err)
	e, err := cat.GetByCode("CPC_335")
	require.NoError(t, err)
	assert.Equal(t, 15, e.Duration)
	assert.Equal(t, catalog.ModeBusinessDays, e.Mode)

	bad := seed[0]
	bad.Duration = 0
	err = repo.Upsert(ctx, []catalog.Entry{bad})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogInvalidEntry), fmt.Sprintf("got %v", err))
}

//Personal.AI order the ending
