package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

var tjsp = Court{Code: "TJSP", UF: "SP", Tier: TierEstadual}

func d(s string) common.Date { return common.MustParseDate(s) }

func TestSnapshot_EmptyClassifiesWeekendsOnly(t *testing.T) {
	s := EmptySnapshot(tjsp)
	assert.True(t, s.Empty())
	assert.True(t, s.OnlyNational())
	assert.True(t, s.Covers(d("1999-01-01")))

	assert.Equal(t, DayUtil, s.Classify(d("2025-12-25")))
	assert.Equal(t, DayFimDeSemana, s.Classify(d("2025-12-20")))
	assert.Equal(t, DayFimDeSemana, s.Classify(d("2025-12-21")))
}

func TestSnapshot_ClassifyPrecedence(t *testing.T) {
	holidays := []Entry{
		{Date: d("2025-12-25"), Name: "Natal", Scope: ScopeNacional, SuspendsExpedient: true},
		{Date: d("2025-11-15"), Name: "Proclamação da República", Scope: ScopeNacional, SuspendsExpedient: true},
		{Date: d("2025-07-09"), Name: "Revolução Constitucionalista", Scope: ScopeEstadual, UF: "SP", SuspendsExpedient: true},
		{Date: d("2025-04-23"), Name: "São Jorge", Scope: ScopeEstadual, UF: "RJ", SuspendsExpedient: true},
		{Date: d("2025-03-05"), Name: "Cinzas", Scope: ScopePontoFacultativo, CourtCode: "TJSP", ExtendsDeadlines: true},
	}
	suspensions := []SuspensionPeriod{
		{Start: d("2025-12-20"), End: d("2026-01-06"), Kind: KindRecessoFimDeAno, SuspendsDeadlines: true},
		{Start: d("2025-12-20"), End: d("2026-01-20"), Kind: KindSuspensaoArt220, SuspendsDeadlines: true},
		{Start: d("2025-06-02"), End: d("2025-06-03"), Kind: KindOperacaoEspecial, SuspendsHearings: true},
	}
	s := NewSnapshot(tjsp, d("2025-01-01"), d("2026-12-31"), holidays, suspensions, "v1")

	assert.False(t, s.Empty())
	assert.False(t, s.OnlyNational())
	assert.Len(t, s.Holidays(), 4, "entries for other states are dropped")
	assert.Equal(t, "v1", s.Version())

	// Recess wins over holiday and art. 220 suspension.
	info := s.Explain(d("2025-12-25"))
	assert.Equal(t, DayRecesso, info.Classification)
	require.NotNil(t, info.Period)
	assert.Equal(t, KindRecessoFimDeAno, info.Period.Kind)
	assert.Equal(t, "RECESSO_FIM_DE_ANO", info.Reason())

	// After the recess the art. 220 suspension remains.
	assert.Equal(t, DaySuspensao, s.Classify(d("2026-01-12")))
	assert.Equal(t, DayUtil, s.Classify(d("2026-01-21")))

	// Holiday on a Saturday is FERIADO.
	info = s.Explain(d("2025-11-15"))
	assert.Equal(t, DayFeriado, info.Classification)
	assert.Equal(t, "Proclamação da República", info.Reason())

	assert.Equal(t, DayFeriado, s.Classify(d("2025-07-09")))
	assert.Equal(t, DayUtil, s.Classify(d("2025-04-23")))

	// Hearing-only suspensions do not affect deadline counting.
	assert.Equal(t, DayUtil, s.Classify(d("2025-06-02")))
	_, suspended := s.SuspendsHearings(d("2025-06-02"))
	assert.True(t, suspended)
	_, suspended = s.SuspendsHearings(d("2025-06-04"))
	assert.False(t, suspended)

	// Early closure keeps the day UTIL but extends deadlines.
	info = s.Explain(d("2025-03-05"))
	assert.Equal(t, DayUtil, info.Classification)
	assert.True(t, info.ExtendsDeadlines)

	assert.Equal(t, "Saturday", s.Explain(d("2025-03-08")).Reason())
}

func TestSnapshot_OnlyNational(t *testing.T) {
	s := NewSnapshot(tjsp, d("2025-01-01"), d("2025-12-31"),
		[]Entry{{Date: d("2025-12-25"), Name: "Natal", Scope: ScopeNacional, SuspendsExpedient: true}},
		NationalSuspensions(2025, 2025), "v")
	assert.False(t, s.Empty())
	assert.True(t, s.OnlyNational())
	assert.False(t, s.Covers(d("2026-01-01")))
}

func TestSnapshot_LowConfidence(t *testing.T) {
	national := []Entry{{Date: d("2025-12-25"), Name: "Natal", Scope: ScopeNacional, SuspendsExpedient: true}}
	assert.True(t, EmptySnapshot(tjsp).LowConfidence())
	assert.True(t, NewSnapshot(tjsp, d("2025-01-01"), d("2025-12-31"), national, nil, "v").LowConfidence())

	withState := append(national, Entry{Date: d("2025-07-09"), Name: "Revolução Constitucionalista", Scope: ScopeEstadual, UF: "SP", SuspendsExpedient: true})
	assert.False(t, NewSnapshot(tjsp, d("2025-01-01"), d("2025-12-31"), withState, nil, "v").LowConfidence())

	unknown := NationalOnly("TJZZ")
	forCode := []Entry{{Date: d("2025-03-19"), Name: "Feriado forense", Scope: ScopeForense, CourtCode: "TJZZ", SuspendsExpedient: true}}
	assert.True(t, NewSnapshot(unknown, d("2025-01-01"), d("2025-12-31"), forCode, nil, "v").LowConfidence(),
		"an unregistered court stays low-confidence")
}

func TestDayInfo_InRecess(t *testing.T) {
	s := NewSnapshot(tjsp, d("2025-01-01"), d("2026-12-31"), nil, NationalSuspensions(2025, 2025), "v")
	assert.True(t, s.Explain(d("2025-12-24")).InRecess())
	assert.Equal(t, DaySuspensao, s.Classify(d("2025-12-24")))
	assert.False(t, s.Explain(d("2025-12-19")).InRecess())

	force := NewSnapshot(tjsp, d("2025-01-01"), d("2025-12-31"), nil, []SuspensionPeriod{
		{Start: d("2025-05-05"), End: d("2025-05-09"), Kind: KindForcaMaior, SuspendsDeadlines: true},
	}, "v")
	assert.False(t, force.Explain(d("2025-05-06")).InRecess())
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := SeedNational(ctx, store, 2025, 2025)
	require.NoError(t, err)
	require.NoError(t, store.AddEntry(ctx, Entry{Date: d("2025-01-25"), Name: "Aniversário de São Paulo", Scope: ScopeMunicipal, CourtCode: "TJSP", SuspendsExpedient: true}))

	s, err := LoadSnapshot(ctx, store, tjsp, d("2025-01-01"), d("2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, s.Holidays(), 11)
	assert.Equal(t, DayFeriado, s.Classify(d("2025-04-18")))
	assert.Len(t, s.EntriesOn(d("2025-01-25")), 1)

	_, err = LoadSnapshot(ctx, store, tjsp, d("2025-12-31"), d("2025-01-01"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRange))
}

func TestSnapshot_ClassifyRange(t *testing.T) {
	s := NewSnapshot(tjsp, d("2025-01-01"), d("2025-12-31"),
		[]Entry{{Date: d("2025-04-21"), Name: "Tiradentes", Scope: ScopeNacional, SuspendsExpedient: true}}, nil, "v")

	days, err := s.ClassifyRange(d("2025-04-18"), d("2025-04-22"))
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, DayUtil, days[0].Classification)
	assert.Equal(t, DayFimDeSemana, days[1].Classification)
	assert.Equal(t, DayFimDeSemana, days[2].Classification)
	assert.Equal(t, DayFeriado, days[3].Classification)
	assert.Equal(t, DayUtil, days[4].Classification)

	_, err = s.ClassifyRange(d("2025-04-22"), d("2025-04-18"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRange))
}

type failingStore struct{ MemoryStore }

func (*failingStore) Version(context.Context) (string, error) {
	return "", errors.New(errors.CodeDatabaseError, "connection refused")
}

func TestLoadSnapshot_StoreFailure(t *testing.T) {
	_, err := LoadSnapshot(context.Background(), &failingStore{}, tjsp, d("2025-01-01"), d("2025-02-01"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarUnreadable))
}

//Personal.AI order the ending
