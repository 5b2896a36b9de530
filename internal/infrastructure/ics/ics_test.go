package ics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func d(s string) common.Date { return common.MustParseDate(s) }

const courtCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//TJSP//Calendario Forense//PT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:aniv-sp@tjsp\r\n" +
	"DTSTART;VALUE=DATE:20250125\r\n" +
	"DTEND;VALUE=DATE:20250126\r\n" +
	"SUMMARY:Aniversário de São Paulo\r\n" +
	"CATEGORIES:MUNICIPAL\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:revolucao@tjsp\r\n" +
	"DTSTART;VALUE=DATE:20250709\r\n" +
	"SUMMARY:Revolução Constitucionalista\r\n" +
	"RRULE:FREQ=YEARLY\r\n" +
	"EXDATE;VALUE=DATE:20260709\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:carnaval@tjsp\r\n" +
	"DTSTART;VALUE=DATE:20250303\r\n" +
	"DTEND;VALUE=DATE:20250305\r\n" +
	"SUMMARY:Carnaval\r\n" +
	"CATEGORIES:PONTO_FACULTATIVO\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:recesso@tjsp\r\n" +
	"DTSTART;VALUE=DATE:20251220\r\n" +
	"DTEND;VALUE=DATE:20260107\r\n" +
	"SUMMARY:Recesso\r\n" +
	"CATEGORIES:RECESSO_FIM_DE_ANO\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:pje@tjsp\r\n" +
	"DTSTART;VALUE=DATE:20250812\r\n" +
	"SUMMARY:Indisponibilidade PJe\r\n" +
	"CATEGORIES:PRORROGACAO\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken@tjsp\r\n" +
	"DTSTART;VALUE=DATE:2025\r\n" +
	"SUMMARY:Sem data\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func importOpts() ImportOptions {
	return ImportOptions{
		UF:         "sp",
		CourtCode:  "TJSP",
		Scope:      calendar.ScopeEstadual,
		From:       d("2025-01-01"),
		To:         d("2026-12-31"),
		LegalBasis: "Provimento CSM",
	}
}

func TestParse_CourtCalendar(t *testing.T) {
	imp, err := Parse(strings.NewReader(courtCalendar), importOpts(), logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, imp.Skipped)
	require.Len(t, imp.Suspensions, 1)
	rec := imp.Suspensions[0]
	assert.Equal(t, calendar.KindRecessoFimDeAno, rec.Kind)
	assert.Equal(t, d("2025-12-20"), rec.Start)
	assert.Equal(t, d("2026-01-06"), rec.End)
	assert.Equal(t, "TJSP", rec.CourtCode)
	assert.True(t, rec.SuspendsDeadlines)

	byDate := make(map[common.Date]calendar.Entry)
	for _, e := range imp.Entries {
		byDate[e.Date] = e
	}
	require.Len(t, imp.Entries, 5)

	aniv := byDate[d("2025-01-25")]
	assert.Equal(t, calendar.ScopeMunicipal, aniv.Scope)
	assert.Equal(t, "TJSP", aniv.CourtCode)
	assert.Empty(t, aniv.UF)

	rev := byDate[d("2025-07-09")]
	assert.Equal(t, calendar.ScopeEstadual, rev.Scope)
	assert.Equal(t, "SP", rev.UF)
	assert.True(t, rev.SuspendsExpedient)
	assert.Equal(t, "Provimento CSM", rev.LegalBasis)
	_, has2026 := byDate[d("2026-07-09")]
	assert.False(t, has2026, "EXDATE removes the 2026 occurrence")

	assert.Equal(t, calendar.ScopePontoFacultativo, byDate[d("2025-03-03")].Scope)
	assert.Equal(t, calendar.ScopePontoFacultativo, byDate[d("2025-03-04")].Scope)

	pje := byDate[d("2025-08-12")]
	assert.True(t, pje.ExtendsDeadlines)
	assert.False(t, pje.SuspendsExpedient)
}

func TestParse_IntoSnapshot(t *testing.T) {
	imp, err := Parse(strings.NewReader(courtCalendar), importOpts(), logging.NewNopLogger())
	require.NoError(t, err)

	store := calendar.NewMemoryStore()
	added, err := Load(context.Background(), store, imp)
	require.NoError(t, err)
	assert.Equal(t, 6, added)

	again, err := Load(context.Background(), store, imp)
	require.NoError(t, err)
	assert.Equal(t, 1, again, "entries are deduplicated; the suspension write is idempotent")

	tjsp := calendar.Court{Code: "TJSP", UF: "SP", Tier: calendar.TierEstadual}
	snap, err := calendar.LoadSnapshot(context.Background(), store, tjsp, d("2025-01-01"), d("2026-12-31"))
	require.NoError(t, err)
	assert.Equal(t, calendar.DayFeriado, snap.Classify(d("2025-07-09")))
	assert.Equal(t, calendar.DayRecesso, snap.Classify(d("2026-01-05")))
	assert.Equal(t, calendar.DayUtil, snap.Classify(d("2025-08-12")))
	assert.True(t, snap.Explain(d("2025-08-12")).ExtendsDeadlines)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a calendar"), ImportOptions{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeCalendarImport), "got %v", err)

	_, err = Parse(strings.NewReader(courtCalendar), ImportOptions{Scope: "BOGUS"}, logging.NewNopLogger())
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(courtCalendar), ImportOptions{From: d("2026-01-01"), To: d("2025-01-01")}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRange))
}

func TestImportOptions_DefaultScope(t *testing.T) {
	o := ImportOptions{CourtCode: "TRF3"}
	require.NoError(t, o.normalize())
	assert.Equal(t, calendar.ScopeForense, o.Scope)

	o = ImportOptions{UF: "mg"}
	require.NoError(t, o.normalize())
	assert.Equal(t, calendar.ScopeEstadual, o.Scope)
	assert.Equal(t, "MG", o.UF)
	assert.False(t, o.From.IsZero())
	assert.True(t, o.From.Before(o.To))
}

func TestExportDeadlines(t *testing.T) {
	res := &computation.Result{
		DueDate:           d("2025-12-22"),
		TriggerDate:       d("2025-12-15"),
		CountStart:        d("2025-12-16"),
		BaseDuration:      5,
		EffectiveDuration: 5,
		AppliedRules:      []string{"SUSPENSAO_RECESSO"},
		Court:             calendar.Court{Code: "TJSP"},
		CatalogCode:       "CPC_1003",
		LowConfidence:     true,
	}
	ev := FromResult("req-1", "Embargos de declaração", res)
	assert.Equal(t, "TJSP", ev.Court)
	assert.Contains(t, ev.Description, "Catálogo: CPC_1003")
	assert.Contains(t, ev.Description, "ATENÇÃO")

	now := time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)
	out := ExportDeadlines([]DeadlineEvent{ev}, now)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20251222")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20251223")
	assert.Contains(t, out, "SUMMARY:Embargos de declaração")
	assert.Contains(t, out, "TRIGGER:-P2D")

	again := ExportDeadlines([]DeadlineEvent{ev}, now.Add(time.Hour))
	assert.Equal(t, uidLine(t, out), uidLine(t, again), "UIDs are stable across exports")
}

func TestExportCalendar_RoundTrip(t *testing.T) {
	entries := []calendar.Entry{
		{Date: d("2025-11-20"), Name: "Consciência Negra", Scope: calendar.ScopeNacional, SuspendsExpedient: true},
		{Date: d("2025-08-12"), Name: "Indisponibilidade PJe", Scope: calendar.ScopeForense, CourtCode: "TJSP", ExtendsDeadlines: true},
	}
	periods := []calendar.SuspensionPeriod{
		{Start: d("2025-12-20"), End: d("2026-01-06"), Kind: calendar.KindRecessoFimDeAno, CourtCode: "TJSP", SuspendsDeadlines: true},
	}
	out := ExportCalendar("TJSP", entries, periods, time.Now())

	imp, err := Parse(strings.NewReader(out), ImportOptions{CourtCode: "TJSP", From: d("2025-01-01"), To: d("2026-12-31")}, logging.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, imp.Entries, 2)
	require.Len(t, imp.Suspensions, 1)
	assert.Equal(t, d("2026-01-06"), imp.Suspensions[0].End)
	assert.Equal(t, calendar.ScopeForense, imp.Entries[0].Scope)
	assert.True(t, imp.Entries[0].ExtendsDeadlines)
	assert.Equal(t, calendar.ScopeNacional, imp.Entries[1].Scope)
}

func uidLine(t *testing.T, ics string) string {
	t.Helper()
	for _, line := range strings.Split(ics, "\n") {
		if strings.HasPrefix(line, "UID:") {
			return strings.TrimSpace(line)
		}
	}
	t.Fatal("no UID line")
	return ""
}

//Personal.AI order the ending
