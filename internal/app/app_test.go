package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Calendar.NationalFromYear = 2024
	cfg.Calendar.NationalToYear = 2026
	return cfg
}

func TestNew_MemoryStore(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	resp, err := a.Service.ComputeDeadline(ctx, &deadline.ComputeRequest{
		CatalogCode: "cpc-335",
		TriggerDate: common.MustParseDate("2025-03-10"),
		Court:       "TJSP",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31", resp.Result.DueDate.String())

	checkers := a.HealthCheckers()
	require.Len(t, checkers, 1)
	assert.Equal(t, "calendar", checkers[0].Name())
	assert.NoError(t, checkers[0].Check(ctx))
}

func TestNew_SeedsFederalAndOptionalClosures(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Calendar.OptionalClosureCourts = []string{"TJRJ"}
	a, err := New(ctx, cfg, nil, WithoutRedis())
	require.NoError(t, err)
	defer a.Close()

	// Dia da Justiça is a forensic holiday of the federal courts only.
	day, err := a.Service.ClassifyDay(ctx, "TRF3", common.MustParseDate("2025-08-11"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayFeriado, day.Day.Classification)
	day, err = a.Service.ClassifyDay(ctx, "TJSP", common.MustParseDate("2025-08-11"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayUtil, day.Day.Classification)

	// Carnaval Monday only closes the courts that opted in.
	day, err = a.Service.ClassifyDay(ctx, "TJRJ", common.MustParseDate("2025-03-03"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayFeriado, day.Day.Classification)
	day, err = a.Service.ClassifyDay(ctx, "TJSP", common.MustParseDate("2025-03-03"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayUtil, day.Day.Classification)
}

func TestNew_CourtsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courts:
  - code: TJMSP
    uf: SP
    tier: MILITAR
    name: Tribunal de Justiça Militar do Estado de São Paulo
    aliases: [TJM-SP]
`), 0o600))

	cfg := testConfig()
	cfg.Calendar.CourtsPath = path
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	c, ok := a.Service.ResolveCourt("tjm-sp")
	require.True(t, ok)
	assert.Equal(t, "TJMSP", c.Code)
}

func TestNew_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.Calendar.CourtsPath = filepath.Join(t.TempDir(), "missing.yaml")
	a, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, a)

	cfg = testConfig()
	cfg.Calendar.Location = "Mars/Olympus"
	a, err = New(context.Background(), cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, a)
}

//Personal.AI order the ending
