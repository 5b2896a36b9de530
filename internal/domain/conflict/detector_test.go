package conflict

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

var tjsp = calendar.Court{Code: "TJSP", UF: "SP", Tier: calendar.TierEstadual}

func d(s string) common.Date { return common.MustParseDate(s) }

func fixedToday(s string) Option {
	return WithClock(func() common.Date { return d(s) })
}

func peremptory(id, party, due string) Deadline {
	return Deadline{ID: id, Party: party, DueDate: d(due), Class: catalog.ClassPeremptorio, Court: tjsp}
}

func ofKind(fs []Finding, k Kind) []Finding {
	var out []Finding
	for _, f := range fs {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

type stubSnapshots struct {
	snap  *calendar.Snapshot
	err   error
	calls int
}

func (s *stubSnapshots) Snapshot(_ context.Context, _ calendar.Court, _, _ common.Date) (*calendar.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func recessSnapshot() *calendar.Snapshot {
	return calendar.NewSnapshot(tjsp, d("2025-01-01"), d("2026-12-31"),
		[]calendar.Entry{
			{Date: d("2026-04-03"), Name: "Sexta-feira Santa", Scope: calendar.ScopeNacional, SuspendsExpedient: true},
		},
		[]calendar.SuspensionPeriod{
			{Start: d("2025-12-20"), End: d("2026-01-06"), Kind: calendar.KindRecessoFimDeAno, SuspendsDeadlines: true},
		}, "v1")
}

func TestDetect_SameDayPeremptoryClash(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"))
	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("a", "escritorio-1", "2026-03-10"),
		peremptory("b", "escritorio-1", "2026-03-10"),
	})
	require.NoError(t, err)
	require.Len(t, fs, 1)

	f := fs[0]
	assert.Equal(t, KindChoqueDireto, f.Kind)
	assert.Equal(t, SeverityAlta, f.Severity)
	assert.Equal(t, "escritorio-1", f.Party)
	assert.ElementsMatch(t, []string{"a", "b"}, f.DeadlineIDs)
	assert.Equal(t, d("2026-03-10"), f.Date)
	assert.NotEmpty(t, f.Suggestion)
}

func TestDetect_AdjacentBusinessDays(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"))
	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("fri", "p", "2026-03-13"),
		peremptory("mon", "p", "2026-03-16"),
		peremptory("wed", "p", "2026-03-18"),
		peremptory("other", "q", "2026-03-13"),
	})
	require.NoError(t, err)

	clashes := ofKind(fs, KindChoqueDireto)
	require.Len(t, clashes, 1, "friday and monday are consecutive business days; wednesday is not adjacent")
	assert.Equal(t, SeverityMedia, clashes[0].Severity)
	assert.ElementsMatch(t, []string{"fri", "mon"}, clashes[0].DeadlineIDs)
}

func TestDetect_AdjacencyUsesCourtCalendar(t *testing.T) {
	provider := &stubSnapshots{snap: recessSnapshot()}
	det := NewDetector(fixedToday("2026-01-01"), WithSnapshots(provider))

	// Good Friday closes the court, so Thursday and Monday are adjacent.
	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("thu", "p", "2026-04-02"),
		peremptory("mon", "p", "2026-04-06"),
	})
	require.NoError(t, err)
	clashes := ofKind(fs, KindChoqueDireto)
	require.Len(t, clashes, 1)
	assert.Equal(t, SeverityMedia, clashes[0].Severity)
	assert.Equal(t, 1, provider.calls, "one snapshot per court")
}

func TestDetect_NonPeremptoryAndClosedDeadlinesDoNotClash(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"))
	done := peremptory("b", "p", "2026-03-10")
	done.Status = StatusCumprido
	dilatory := peremptory("c", "p", "2026-03-10")
	dilatory.Class = catalog.ClassDilatorio

	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("a", "p", "2026-03-10"), done, dilatory,
	})
	require.NoError(t, err)
	assert.Empty(t, ofKind(fs, KindChoqueDireto))
}

func TestDetect_WeeklyOverload(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"), WithWeeklyThreshold(4))

	var dls []Deadline
	for i := 0; i < 5; i++ {
		dls = append(dls, Deadline{
			ID: fmt.Sprintf("w11-%d", i), Party: "p", DueDate: d("2026-03-09").AddDays(i),
			Class: catalog.ClassDilatorio, Court: tjsp,
		})
	}
	for i := 0; i < 9; i++ {
		dls = append(dls, Deadline{
			ID: fmt.Sprintf("w12-%d", i), Party: "p", DueDate: d("2026-03-16").AddDays(i % 5),
			Class: catalog.ClassImproprio, Court: tjsp,
		})
	}

	fs, err := det.Detect(context.Background(), dls)
	require.NoError(t, err)
	over := ofKind(fs, KindSobrecargaSemanal)
	require.Len(t, over, 2)

	byWeek := map[string]Finding{}
	for _, f := range over {
		byWeek[f.Week] = f
	}
	assert.Equal(t, SeverityMedia, byWeek["2026-W11"].Severity)
	assert.Len(t, byWeek["2026-W11"].DeadlineIDs, 5)
	assert.Equal(t, SeverityAlta, byWeek["2026-W12"].Severity)
	assert.Equal(t, d("2026-03-16"), byWeek["2026-W12"].Date)
}

func TestDetect_WeeklyWeights(t *testing.T) {
	// One peremptory deadline and three hearings: 3 + 2 + 2 + 2 = 9
	// against a threshold of 8.
	det := NewDetector(fixedToday("2026-01-01"), WithWeeklyThreshold(8))
	hearing := func(id, due string) Deadline {
		return Deadline{ID: id, Party: "p", DueDate: d(due), Hearing: true, Court: tjsp,
			HearingStart: d(due).Time().Add(9 * time.Hour), HearingEnd: d(due).Time().Add(10 * time.Hour)}
	}
	h1 := hearing("h1", "2026-03-09")
	h2 := hearing("h2", "2026-03-10")
	h3 := hearing("h3", "2026-03-11")

	fs, err := det.Detect(context.Background(), []Deadline{peremptory("a", "p", "2026-03-12"), h1, h2, h3})
	require.NoError(t, err)
	over := ofKind(fs, KindSobrecargaSemanal)
	require.Len(t, over, 1)
	assert.Contains(t, over[0].Description, "carga semanal 9")
}

func TestDetect_RecessCollision(t *testing.T) {
	det := NewDetector(fixedToday("2025-11-01"), WithSnapshots(&stubSnapshots{snap: recessSnapshot()}))
	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("in-recess", "p", "2025-12-22"),
		peremptory("after", "p", "2026-01-07"),
	})
	require.NoError(t, err)

	rc := ofKind(fs, KindColisaoRecesso)
	require.Len(t, rc, 1)
	assert.Equal(t, SeverityCritica, rc[0].Severity)
	assert.Equal(t, []string{"in-recess"}, rc[0].DeadlineIDs)
}

func TestDetect_SnapshotFailureDegrades(t *testing.T) {
	det := NewDetector(fixedToday("2025-11-01"),
		WithSnapshots(&stubSnapshots{err: errors.New(errors.ErrCodeCalendarUnreadable, "down")}))
	fs, err := det.Detect(context.Background(), []Deadline{peremptory("a", "p", "2025-12-22")})
	require.NoError(t, err)
	assert.Empty(t, ofKind(fs, KindColisaoRecesso))
}

func TestDetect_DuplicateHearings(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"))
	at := func(id string, hour int) Deadline {
		day := d("2026-05-05")
		return Deadline{ID: id, Party: "p", DueDate: day, Hearing: true, Court: tjsp,
			HearingStart: day.Time().Add(time.Duration(hour) * time.Hour)}
	}
	allDay := Deadline{ID: "all-day", Party: "p", DueDate: d("2026-05-06"), Hearing: true, Court: tjsp}
	allDay2 := Deadline{ID: "all-day-2", Party: "p", DueDate: d("2026-05-06"), Hearing: true, Court: tjsp}

	fs, err := det.Detect(context.Background(), []Deadline{
		at("nine", 9), at("nine-b", 9), at("two-pm", 14), allDay, allDay2,
	})
	require.NoError(t, err)

	dup := ofKind(fs, KindAudienciaDuplicada)
	require.Len(t, dup, 2)
	for _, f := range dup {
		assert.Equal(t, SeverityCritica, f.Severity)
	}
	assert.Empty(t, ofKind(fs, KindChoqueDireto), "hearings are not peremptory deadlines")
}

func TestDetect_WholeDayHearingUsesLocalDay(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	evening := Deadline{ID: "evening", Party: "p", DueDate: d("2026-05-07"), Hearing: true, Court: tjsp,
		HearingStart: time.Date(2026, time.May, 7, 22, 0, 0, 0, brt)}
	allDay := Deadline{ID: "all-day", Party: "p", DueDate: d("2026-05-07"), Hearing: true, Court: tjsp}

	fs, err := NewDetector(fixedToday("2026-01-01")).Detect(context.Background(), []Deadline{evening, allDay})
	require.NoError(t, err)
	dup := ofKind(fs, KindAudienciaDuplicada)
	require.Len(t, dup, 1)
	assert.ElementsMatch(t, []string{"evening", "all-day"}, dup[0].DeadlineIDs)

	// Reckoned in UTC the evening hearing starts on the next civil day.
	fs, err = NewDetector(fixedToday("2026-01-01"), WithLocation(time.UTC)).Detect(context.Background(), []Deadline{evening, allDay})
	require.NoError(t, err)
	assert.Empty(t, ofKind(fs, KindAudienciaDuplicada))
}

func TestDetect_ImpossibleDate(t *testing.T) {
	det := NewDetector(fixedToday("2026-03-20"))
	done := peremptory("done", "p", "2026-03-02")
	done.Status = StatusCumprido

	fs, err := det.Detect(context.Background(), []Deadline{
		peremptory("late", "p", "2026-03-10"),
		peremptory("today", "p", "2026-03-20"),
		done,
	})
	require.NoError(t, err)
	imp := ofKind(fs, KindDataImpossivel)
	require.Len(t, imp, 1)
	assert.Equal(t, []string{"late"}, imp[0].DeadlineIDs)
	assert.Equal(t, SeverityCritica, imp[0].Severity)
}

func TestDetect_Dependencies(t *testing.T) {
	det := NewDetector(fixedToday("2026-01-01"))
	reply := peremptory("reply", "p", "2026-03-02")
	reply.DependsOn = []string{"missing", "brief"}
	reply.Class = catalog.ClassDilatorio

	brief := peremptory("brief", "p", "2026-03-20")

	fs, err := det.Detect(context.Background(), []Deadline{reply, brief})
	require.NoError(t, err)

	deps := ofKind(fs, KindDependenciaNaoResolvida)
	require.Len(t, deps, 2)
	// ALTA sorts before MEDIA.
	assert.Equal(t, SeverityAlta, deps[0].Severity)
	assert.ElementsMatch(t, []string{"reply", "brief"}, deps[0].DeadlineIDs)
	assert.Equal(t, SeverityMedia, deps[1].Severity)
	assert.Contains(t, deps[1].Description, "missing")
}

func TestDetect_InvalidInput(t *testing.T) {
	det := NewDetector()
	cases := map[string][]Deadline{
		"missing id":    {{Party: "p", DueDate: d("2026-03-10")}},
		"missing party": {{ID: "a", DueDate: d("2026-03-10")}},
		"missing date":  {{ID: "a", Party: "p"}},
		"duplicate id":  {peremptory("a", "p", "2026-03-10"), peremptory("a", "q", "2026-03-11")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := det.Detect(context.Background(), in)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConflictInput), "got %v", err)
		})
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	fs, err := NewDetector().Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, fs)
	assert.Empty(t, fs)
}

func TestDetect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDetector().Detect(ctx, []Deadline{peremptory("a", "p", "2026-03-10")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflictAborted), "got %v", err)
}

func TestDetect_DeterministicAcrossRuns(t *testing.T) {
	det := NewDetector(fixedToday("2026-03-11"), WithConcurrency(4))
	var dls []Deadline
	for p := 0; p < 6; p++ {
		party := fmt.Sprintf("party-%d", p)
		dls = append(dls,
			peremptory(party+"-a", party, "2026-03-10"),
			peremptory(party+"-b", party, "2026-03-10"),
			peremptory(party+"-c", party, "2026-03-11"),
		)
	}

	first, err := det.Detect(context.Background(), dls)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := det.Detect(context.Background(), dls)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].Severity.Rank(), first[i].Severity.Rank())
	}
	assert.Equal(t, SeverityCritica, first[0].Severity, "past pending deadlines come first")
}

func TestFindingID_Stable(t *testing.T) {
	a := findingID(KindChoqueDireto, []string{"x", "y"}, "")
	b := findingID(KindChoqueDireto, []string{"y", "x"}, "")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, findingID(KindAudienciaDuplicada, []string{"x", "y"}, ""))
	assert.Equal(t, "2026-W11", isoWeek(d("2026-03-10")))
	assert.Equal(t, "2026-W01", isoWeek(d("2025-12-29")))
}

//Personal.AI order the ending
