// Package ics converts between iCalendar files and the judicial calendar:
// court calendars published as ICS are imported as entries and suspension
// periods, and computed deadlines are exported as all-day events.
package ics

import (
	"context"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// CategoryExtendsDeadlines marks an event as a day on which the court opened
// but deadlines expiring that day still move forward (early closure, system
// outage).
const CategoryExtendsDeadlines = "PRORROGACAO"

// ImportOptions scopes every imported event to one jurisdiction.
type ImportOptions struct {
	// Scope applied to events with no scope category. Defaults to FORENSE
	// when CourtCode is set, ESTADUAL when only UF is set.
	Scope     calendar.Scope
	UF        string
	CourtCode string
	// From and To bound recurrence expansion. Zero values default to the
	// current year and the next.
	From common.Date
	To   common.Date
	// LegalBasis is copied into every entry, e.g. the court's portaria.
	LegalBasis string
}

func (o *ImportOptions) normalize() error {
	o.UF = strings.ToUpper(strings.TrimSpace(o.UF))
	if o.Scope == "" {
		switch {
		case o.CourtCode != "":
			o.Scope = calendar.ScopeForense
		case o.UF != "":
			o.Scope = calendar.ScopeEstadual
		default:
			o.Scope = calendar.ScopeNacional
		}
	}
	if !o.Scope.IsValid() {
		return errors.InvalidParam("invalid import scope").WithDetail(string(o.Scope))
	}
	if o.From.IsZero() {
		y := time.Now().Year()
		o.From = common.NewDate(y, time.January, 1)
	}
	if o.To.IsZero() {
		o.To = common.NewDate(o.From.Year()+1, time.December, 31)
	}
	if o.To.Before(o.From) {
		return errors.New(errors.ErrCodeInvalidRange, "import window end precedes start")
	}
	return nil
}

// Import is the result of parsing one calendar file.
type Import struct {
	Entries     []calendar.Entry
	Suspensions []calendar.SuspensionPeriod
	// Skipped counts events that could not be interpreted.
	Skipped int
}

// Parse reads an ICS stream.
//
// Each VEVENT becomes one entry per covered day, unless its CATEGORIES name a
// suspension kind (e.g. RECESSO_FIM_DE_ANO), in which case the whole span
// becomes one suspension period. A scope category (e.g. MUNICIPAL) overrides
// opts.Scope; CategoryExtendsDeadlines produces entries that extend deadlines
// without closing the court. RRULE and EXDATE are honoured inside
// [opts.From, opts.To].
func Parse(r io.Reader, opts ImportOptions, log logging.Logger) (*Import, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarImport, "parsing ics")
	}

	out := &Import{}
	for _, ev := range cal.Events() {
		if err := convertEvent(ev, opts, out); err != nil {
			out.Skipped++
			log.Warn("ics event skipped", logging.Err(err), logging.String("uid", propValue(ev, ical.ComponentPropertyUniqueId)))
		}
	}
	calendar.SortEntries(out.Entries)
	calendar.SortSuspensions(out.Suspensions)

	log.Info("ics parsed",
		logging.Int("entries", len(out.Entries)),
		logging.Int("suspensions", len(out.Suspensions)),
		logging.Int("skipped", out.Skipped))
	return out, nil
}

func convertEvent(ev *ical.VEvent, opts ImportOptions, out *Import) error {
	summary := strings.TrimSpace(propValue(ev, ical.ComponentPropertySummary))
	if summary == "" {
		return errors.New(errors.ErrCodeCalendarImport, "event without summary")
	}
	start, err := parseICSDate(propValue(ev, ical.ComponentPropertyDtStart))
	if err != nil {
		return err
	}
	days := 1
	if raw := propValue(ev, ical.ComponentPropertyDtEnd); raw != "" {
		end, err := parseICSDate(raw)
		if err != nil {
			return err
		}
		// DTEND is exclusive for all-day events.
		if n := start.DaysUntil(end); n > 1 {
			days = n
		}
	}

	scope, kind, extends := opts.Scope, calendar.SuspensionKind(""), false
	for _, cat := range categories(ev) {
		switch {
		case calendar.Scope(cat).IsValid():
			scope = calendar.Scope(cat)
		case calendar.SuspensionKind(cat).IsValid():
			kind = calendar.SuspensionKind(cat)
		case cat == CategoryExtendsDeadlines:
			extends = true
		}
	}

	starts := []common.Date{start}
	if rule := propValue(ev, ical.ComponentPropertyRrule); rule != "" {
		dtstart := "DTSTART=" + start.Time().Format("20060102T150405Z") + ";"
		starts, err = calendar.ExpandRule(dtstart+rule, opts.From, opts.To)
		if err != nil {
			return err
		}
	}
	excluded := exDates(ev)

	for _, s := range starts {
		if excluded[s] {
			continue
		}
		if kind != "" {
			p := calendar.SuspensionPeriod{
				Start:             s,
				End:               s.AddDays(days - 1),
				Kind:              kind,
				UF:                opts.UF,
				CourtCode:         opts.CourtCode,
				SuspendsDeadlines: true,
				SuspendsHearings:  true,
				LegalBasis:        opts.LegalBasis,
			}
			if scope == calendar.ScopeNacional {
				p.UF, p.CourtCode = "", ""
			}
			if err := p.Validate(); err != nil {
				return err
			}
			out.Suspensions = append(out.Suspensions, p)
			continue
		}
		for i := 0; i < days; i++ {
			e := calendar.Entry{
				Date:              s.AddDays(i),
				Name:              summary,
				Scope:             scope,
				SuspendsExpedient: !extends,
				ExtendsDeadlines:  extends,
				LegalBasis:        opts.LegalBasis,
			}
			switch scope {
			case calendar.ScopeEstadual:
				e.UF = opts.UF
			case calendar.ScopeNacional:
			default:
				e.CourtCode = opts.CourtCode
			}
			if err := e.Validate(); err != nil {
				return err
			}
			out.Entries = append(out.Entries, e)
		}
	}
	return nil
}

// Load writes imp into w, skipping entries the store already holds. It
// returns the number of entries and periods added.
func Load(ctx context.Context, w calendar.Writer, imp *Import) (int, error) {
	added := 0
	for _, e := range imp.Entries {
		if err := w.AddEntry(ctx, e); err != nil {
			if errors.IsCode(err, errors.ErrCodeDuplicateEntry) {
				continue
			}
			return added, err
		}
		added++
	}
	for _, p := range imp.Suspensions {
		if err := w.AddSuspension(ctx, p); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Property helpers
// ─────────────────────────────────────────────────────────────────────────────

func propValue(ev *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ev.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

func categories(ev *ical.VEvent) []string {
	var out []string
	for _, p := range ev.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func exDates(ev *ical.VEvent) map[common.Date]bool {
	out := make(map[common.Date]bool)
	for _, p := range ev.GetProperties(ical.ComponentPropertyExdate) {
		for _, v := range strings.Split(p.Value, ",") {
			if d, err := parseICSDate(v); err == nil {
				out[d] = true
			}
		}
	}
	return out
}

// parseICSDate reads the civil date of a DATE or DATE-TIME value. Court
// calendars publish all-day events, so the time of day is ignored.
func parseICSDate(v string) (common.Date, error) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return common.Date{}, errors.New(errors.ErrCodeCalendarImport, "invalid ics date").WithDetail(v)
	}
	t, err := time.Parse("20060102", v[:8])
	if err != nil {
		return common.Date{}, errors.Wrap(err, errors.ErrCodeCalendarImport, "invalid ics date").WithDetail(v)
	}
	return common.DateOf(t), nil
}

//Personal.AI order the ending
