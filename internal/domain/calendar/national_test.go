package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func datesOf(es []Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Date.String())
	}
	return out
}

func TestNationalHolidays_2025(t *testing.T) {
	got, err := NationalHolidays(2025, 2025)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-01-01", "2025-04-18", "2025-04-21", "2025-05-01", "2025-09-07",
		"2025-10-12", "2025-11-02", "2025-11-15", "2025-11-20", "2025-12-25",
	}, datesOf(got))
	for _, e := range got {
		assert.Equal(t, ScopeNacional, e.Scope)
		assert.True(t, e.SuspendsExpedient)
		assert.NotEmpty(t, e.LegalBasis)
	}
}

func TestNationalHolidays_EasterAcrossYears(t *testing.T) {
	got, err := NationalHolidays(2024, 2026)
	require.NoError(t, err)

	var goodFridays []string
	for _, e := range got {
		if e.Name == "Sexta-feira Santa" {
			goodFridays = append(goodFridays, e.Date.String())
		}
	}
	assert.Equal(t, []string{"2024-03-29", "2025-04-18", "2026-04-03"}, goodFridays)
}

func TestNationalHolidays_ConscienciaNegraOnlyFrom2024(t *testing.T) {
	got, err := NationalHolidays(2023, 2023)
	require.NoError(t, err)
	assert.Len(t, got, 9)
	assert.NotContains(t, datesOf(got), "2023-11-20")

	got, err = NationalHolidays(2023, 2024)
	require.NoError(t, err)
	assert.Contains(t, datesOf(got), "2024-11-20")
}

func TestNationalHolidays_InvalidRange(t *testing.T) {
	_, err := NationalHolidays(2026, 2025)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRange))
}

func TestOptionalClosures_2025(t *testing.T) {
	got, err := OptionalClosures("tj-sp", 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-06-19"}, datesOf(got))

	ashWednesday := got[2]
	assert.False(t, ashWednesday.SuspendsExpedient)
	assert.True(t, ashWednesday.ExtendsDeadlines)
	assert.Equal(t, "TJSP", ashWednesday.CourtCode)
	assert.Equal(t, ScopePontoFacultativo, ashWednesday.Scope)
}

func TestFederalJusticeHolidays_2025(t *testing.T) {
	got, err := FederalJusticeHolidays("TRF3", 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-03-03", "2025-03-04", "2025-04-16", "2025-04-17",
		"2025-08-11", "2025-11-01", "2025-12-08",
	}, datesOf(got))
	for _, e := range got {
		assert.NoError(t, e.Validate())
	}
}

func TestNationalSuspensionsAndFederalRecess(t *testing.T) {
	art220 := NationalSuspensions(2025, 2026)
	require.Len(t, art220, 2)
	assert.Equal(t, "2025-12-20", art220[0].Start.String())
	assert.Equal(t, "2026-01-20", art220[0].End.String())
	assert.True(t, art220[0].IsNational())

	recess := FederalRecess("TRF1", 2025, 2025)
	require.Len(t, recess, 1)
	assert.Equal(t, KindRecessoFimDeAno, recess[0].Kind)
	assert.Equal(t, "2026-01-06", recess[0].End.String())
	assert.NoError(t, recess[0].Validate())
}

func TestExpandRule(t *testing.T) {
	from := common.MustParseDate("2024-01-01")
	to := common.MustParseDate("2026-12-31")

	got, err := ExpandRule("FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=25", from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-25", got[0].String())
	assert.Equal(t, "2026-01-25", got[2].String())

	got, err = ExpandRule("RRULE:FREQ=YEARLY;BYMONTH=7;BYMONTHDAY=9", from, common.MustParseDate("2024-12-31"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-07-09", got[0].String())

	_, err = ExpandRule("FREQ=SOMETIMES", from, to)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecurrence))

	_, err = ExpandRule("FREQ=YEARLY", to, from)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRange))
}

func TestSeedNational(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := SeedNational(ctx, s, 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// Re-seeding skips duplicate entries and identical periods.
	n, err = SeedNational(ctx, s, 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	entries, suspensions := s.Len()
	assert.Equal(t, 10, entries)
	assert.Equal(t, 1, suspensions)
}

func TestSeedFederalJusticeAndClosures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	want, err := FederalJusticeHolidays("TRF3", 2025, 2025)
	require.NoError(t, err)
	n, err := SeedFederalJustice(ctx, s, "trf-3", 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)
	_, suspensions := s.Len()
	assert.Equal(t, 1, suspensions)

	closures, err := OptionalClosures("TJSP", 2025, 2025)
	require.NoError(t, err)
	n, err = SeedOptionalClosures(ctx, s, "TJSP", 2025, 2025)
	require.NoError(t, err)
	assert.Equal(t, len(closures), n)

	n, err = SeedOptionalClosures(ctx, s, "TJSP", 2025, 2025)
	require.NoError(t, err)
	assert.Zero(t, n)
}

//Personal.AI order the ending
