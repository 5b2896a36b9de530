package calendar

import (
	"context"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// DayInfo explains why a date received its classification.
type DayInfo struct {
	Date           common.Date       `json:"date"`
	Classification Classification    `json:"classification"`
	Entry          *Entry            `json:"entry,omitempty"`
	Period         *SuspensionPeriod `json:"period,omitempty"`
	// ExtendsDeadlines is true when any entry on the date asks deadlines
	// expiring there to roll forward.
	ExtendsDeadlines bool `json:"extends_deadlines"`
}

// Reason is a short human-readable description of the classification.
func (i DayInfo) Reason() string {
	switch {
	case i.Period != nil:
		return string(i.Period.Kind)
	case i.Entry != nil:
		return i.Entry.Name
	case i.Classification == DayFimDeSemana:
		return i.Date.Weekday().String()
	}
	return ""
}

// InRecess reports whether the date lies in a period that halts
// recess-suspended counts.
func (i DayInfo) InRecess() bool {
	return i.Period != nil && i.Period.Kind.HaltsRecessCounts()
}

// Snapshot is an immutable view of one court's calendar over a date window.
// Classification of dates outside the window only considers weekends and the
// suspension periods held.
type Snapshot struct {
	court       Court
	from, to    common.Date
	version     string
	holidays    []Entry
	suspensions []SuspensionPeriod
	byDate      map[common.Date][]Entry
}

// NewSnapshot builds a snapshot. Entries and periods that do not match court
// are discarded.
func NewSnapshot(court Court, from, to common.Date, holidays []Entry, suspensions []SuspensionPeriod, version string) *Snapshot {
	s := &Snapshot{
		court:   court,
		from:    from,
		to:      to,
		version: version,
		byDate:  make(map[common.Date][]Entry, len(holidays)),
	}
	for _, e := range holidays {
		if !e.Matches(court) {
			continue
		}
		s.holidays = append(s.holidays, e)
		s.byDate[e.Date] = append(s.byDate[e.Date], e)
	}
	for _, p := range suspensions {
		if p.Matches(court) {
			s.suspensions = append(s.suspensions, p)
		}
	}
	SortEntries(s.holidays)
	SortSuspensions(s.suspensions)
	return s
}

// EmptySnapshot has no holidays or suspensions; only weekends are non-UTIL.
func EmptySnapshot(court Court) *Snapshot {
	return NewSnapshot(court, common.Date{}, common.Date{}, nil, nil, "empty")
}

// LoadSnapshot reads court's calendar data for [from, to] from store.
func LoadSnapshot(ctx context.Context, store Store, court Court, from, to common.Date) (*Snapshot, error) {
	if to.Before(from) {
		return nil, errors.New(errors.ErrCodeInvalidRange, "snapshot window end precedes start")
	}
	version, err := store.Version(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "reading calendar version")
	}
	holidays, err := store.Holidays(ctx, court, from, to)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "reading holidays")
	}
	suspensions, err := store.Suspensions(ctx, court)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "reading suspensions")
	}
	return NewSnapshot(court, from, to, holidays, suspensions, version), nil
}

func (s *Snapshot) Court() Court      { return s.court }
func (s *Snapshot) From() common.Date { return s.from }
func (s *Snapshot) To() common.Date   { return s.to }
func (s *Snapshot) Version() string   { return s.version }

// Holidays returns a copy of the entries held.
func (s *Snapshot) Holidays() []Entry {
	return append([]Entry(nil), s.holidays...)
}

// Suspensions returns a copy of the periods held.
func (s *Snapshot) Suspensions() []SuspensionPeriod {
	return append([]SuspensionPeriod(nil), s.suspensions...)
}

// Empty reports whether the snapshot carries no calendar data at all.
func (s *Snapshot) Empty() bool {
	return len(s.holidays) == 0 && len(s.suspensions) == 0
}

// OnlyNational reports whether every entry and period held is national, i.e.
// no state or court calendar contributed.
func (s *Snapshot) OnlyNational() bool {
	for _, e := range s.holidays {
		if e.Scope != ScopeNacional {
			return false
		}
	}
	for _, p := range s.suspensions {
		if !p.IsNational() {
			return false
		}
	}
	return true
}

// LowConfidence reports whether results over s need human review: the court
// is not registered or no state or court calendar contributed, so local
// holidays may be missing.
func (s *Snapshot) LowConfidence() bool {
	return s.court.IsNationalOnly() || s.Empty() || s.OnlyNational()
}

// Covers reports whether d lies inside the snapshot window. A snapshot with
// open bounds covers every date.
func (s *Snapshot) Covers(d common.Date) bool {
	if !s.from.IsZero() && d.Before(s.from) {
		return false
	}
	if !s.to.IsZero() && d.After(s.to) {
		return false
	}
	return true
}

// Classify returns the classification of d. Precedence:
// RECESSO > SUSPENSAO > FERIADO > FIM_DE_SEMANA > UTIL.
func (s *Snapshot) Classify(d common.Date) Classification {
	return s.Explain(d).Classification
}

// Explain classifies d and reports the entry or period responsible.
func (s *Snapshot) Explain(d common.Date) DayInfo {
	info := DayInfo{Date: d, Classification: DayUtil}
	for _, e := range s.byDate[d] {
		if e.ExtendsDeadlines {
			info.ExtendsDeadlines = true
		}
	}

	for i := range s.suspensions {
		p := &s.suspensions[i]
		if p.Kind.IsRecess() && p.Covers(d) {
			cp := *p
			info.Classification, info.Period = DayRecesso, &cp
			return info
		}
	}
	for i := range s.suspensions {
		p := &s.suspensions[i]
		if p.SuspendsDeadlines && p.Covers(d) {
			cp := *p
			info.Classification, info.Period = DaySuspensao, &cp
			return info
		}
	}
	for _, e := range s.byDate[d] {
		if e.SuspendsExpedient {
			cp := e
			info.Classification, info.Entry = DayFeriado, &cp
			return info
		}
	}
	if d.IsWeekend() {
		info.Classification = DayFimDeSemana
		return info
	}
	return info
}

// ClassifyRange explains every date in [from, to] in order.
func (s *Snapshot) ClassifyRange(from, to common.Date) ([]DayInfo, error) {
	if to.Before(from) {
		return nil, errors.New(errors.ErrCodeInvalidRange, "range end precedes start").
			WithDetail(from.String() + ".." + to.String())
	}
	out := make([]DayInfo, 0, from.DaysUntil(to)+1)
	for cur := from; !cur.After(to); cur = cur.AddDays(1) {
		out = append(out, s.Explain(cur))
	}
	return out, nil
}

// EntriesOn returns the entries registered for d.
func (s *Snapshot) EntriesOn(d common.Date) []Entry {
	return append([]Entry(nil), s.byDate[d]...)
}

// SuspendsHearings reports whether a hearing on d falls inside a period that
// suspends hearings or recess.
func (s *Snapshot) SuspendsHearings(d common.Date) (*SuspensionPeriod, bool) {
	for i := range s.suspensions {
		p := s.suspensions[i]
		if (p.SuspendsHearings || p.Kind.IsRecess()) && p.Covers(d) {
			return &p, true
		}
	}
	return nil, false
}

//Personal.AI order the ending
