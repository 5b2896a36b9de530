package calendar

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func TestMemoryStore_AddEntry_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d := common.MustParseDate("2025-01-25")

	require.NoError(t, s.AddEntry(ctx, Entry{Date: d, Name: "Aniversário de São Paulo", Scope: ScopeMunicipal, CourtCode: "TJSP", SuspendsExpedient: true}))

	err := s.AddEntry(ctx, Entry{Date: d, Name: "Outro", Scope: ScopeMunicipal, CourtCode: "tj-sp"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateEntry))

	// Same date, different scope is allowed.
	require.NoError(t, s.AddEntry(ctx, Entry{Date: d, Name: "Outro", Scope: ScopeEstadual, UF: "SP"}))

	entries, suspensions := s.Len()
	assert.Equal(t, 2, entries)
	assert.Equal(t, 0, suspensions)
}

func TestMemoryStore_AddEntry_Invalid(t *testing.T) {
	s := NewMemoryStore()
	err := s.AddEntry(context.Background(), Entry{Name: "sem data", Scope: ScopeNacional})
	assert.Error(t, err)
}

func TestMemoryStore_HolidaysFilteredByCourtAndRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.AddEntry(ctx, Entry{Date: common.MustParseDate("2025-04-21"), Name: "Tiradentes", Scope: ScopeNacional, SuspendsExpedient: true}))
	require.NoError(t, s.AddEntry(ctx, Entry{Date: common.MustParseDate("2025-07-09"), Name: "Revolução Constitucionalista", Scope: ScopeEstadual, UF: "SP", SuspendsExpedient: true}))
	require.NoError(t, s.AddEntry(ctx, Entry{Date: common.MustParseDate("2025-04-23"), Name: "São Jorge", Scope: ScopeEstadual, UF: "RJ", SuspendsExpedient: true}))
	require.NoError(t, s.AddEntry(ctx, Entry{Date: common.MustParseDate("2026-01-01"), Name: "Confraternização", Scope: ScopeNacional, SuspendsExpedient: true}))

	tjsp := Court{Code: "TJSP", UF: "SP", Tier: TierEstadual}
	got, err := s.Holidays(ctx, tjsp, common.MustParseDate("2025-01-01"), common.MustParseDate("2025-12-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tiradentes", got[0].Name)
	assert.Equal(t, "Revolução Constitucionalista", got[1].Name)
}

func TestMemoryStore_SuspensionsAndVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v0, err := s.Version(ctx)
	require.NoError(t, err)

	require.NoError(t, s.AddSuspension(ctx, SuspensionPeriod{
		Start: common.MustParseDate("2025-05-06"), End: common.MustParseDate("2025-05-31"),
		Kind: KindForcaMaior, UF: "RS", SuspendsDeadlines: true,
	}))
	require.NoError(t, s.AddSuspension(ctx, SuspensionPeriod{
		Start: common.MustParseDate("2025-02-03"), End: common.MustParseDate("2025-02-03"),
		Kind: KindIndisponibilidadeSistema, SuspendsDeadlines: true,
	}))
	err = s.AddSuspension(ctx, SuspensionPeriod{
		Start: common.MustParseDate("2025-02-03"), End: common.MustParseDate("2025-02-01"),
		Kind: KindLutoOficial,
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidSuspension))

	v1, err := s.Version(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v0, v1)

	rs, err := s.Suspensions(ctx, Court{Code: "TJRS", UF: "RS"})
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, KindIndisponibilidadeSistema, rs[0].Kind)

	sp, err := s.Suspensions(ctx, Court{Code: "TJSP", UF: "SP"})
	require.NoError(t, err)
	assert.Len(t, sp, 1)

	require.NoError(t, s.AddSuspension(ctx, rs[0]))
	v2, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1, v2, "identical period is not stored twice")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	start := common.MustParseDate("2030-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AddEntry(ctx, Entry{Date: start.AddDays(i), Name: "d", Scope: ScopeNacional})
			_, _ = s.Holidays(ctx, NationalOnly("X"), start, start.AddDays(60))
		}(i)
	}
	wg.Wait()

	got, err := s.Holidays(ctx, NationalOnly("X"), start, start.AddDays(60))
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

//Personal.AI order the ending
