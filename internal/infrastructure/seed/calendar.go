// Package seed loads reference data kept in YAML files: court calendars,
// the court registry and catalog overrides.
package seed

import (
	"bytes"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// CalendarFile is the on-disk layout of a calendar seed:
//
//	entries:
//	  - date: 2025-01-25
//	    name: Aniversário de São Paulo
//	    scope: MUNICIPAL
//	    court_code: TJSP
//	    suspends_expedient: true
//	  - rrule: FREQ=YEARLY;BYMONTH=7;BYMONTHDAY=9
//	    name: Revolução Constitucionalista
//	    scope: ESTADUAL
//	    uf: SP
//	    suspends_expedient: true
//	suspensions:
//	  - start: 2025-12-20
//	    end: 2026-01-06
//	    kind: RECESSO_FIM_DE_ANO
//	    court_code: TJSP
//	    suspends_deadlines: true
type CalendarFile struct {
	Entries     []EntryDoc                  `yaml:"entries"`
	Suspensions []calendar.SuspensionPeriod `yaml:"suspensions"`
}

// EntryDoc is a calendar entry with an optional recurrence rule. When RRule
// is set, Date is ignored and one entry is produced per occurrence.
type EntryDoc struct {
	calendar.Entry `yaml:",inline"`
	RRule          string `yaml:"rrule"`
}

// Window bounds recurrence expansion.
type Window struct {
	From common.Date
	To   common.Date
}

// YearWindow covers Jan 1 of fromYear to Dec 31 of toYear.
func YearWindow(fromYear, toYear int) Window {
	return Window{
		From: common.NewDate(fromYear, time.January, 1),
		To:   common.NewDate(toYear, time.December, 31),
	}
}

// ParseCalendar decodes a calendar seed and expands its recurrences inside w.
// Unknown keys are rejected so that a misspelled flag does not silently
// become false.
func ParseCalendar(r io.Reader, w Window) ([]calendar.Entry, []calendar.SuspensionPeriod, error) {
	var doc CalendarFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, nil, errors.Wrap(err, errors.ErrCodeCalendarImport, "decoding calendar seed")
	}

	var entries []calendar.Entry
	for i, d := range doc.Entries {
		expanded, err := d.expand(w)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeCalendarImport, "calendar seed entry").
				WithDetail(entryLabel(i, d))
		}
		entries = append(entries, expanded...)
	}
	for i, p := range doc.Suspensions {
		p.UF = strings.ToUpper(p.UF)
		if err := p.Validate(); err != nil {
			return nil, nil, err
		}
		doc.Suspensions[i] = p
	}
	calendar.SortEntries(entries)
	calendar.SortSuspensions(doc.Suspensions)
	return entries, doc.Suspensions, nil
}

func (d EntryDoc) expand(w Window) ([]calendar.Entry, error) {
	base := d.Entry
	base.UF = strings.ToUpper(base.UF)
	if d.RRule == "" {
		if err := base.Validate(); err != nil {
			return nil, err
		}
		return []calendar.Entry{base}, nil
	}
	dates, err := calendar.ExpandRule(d.RRule, w.From, w.To)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.Entry, 0, len(dates))
	for _, date := range dates {
		e := base
		e.Date = date
		if err := e.Validate(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func entryLabel(i int, d EntryDoc) string {
	if d.Name != "" {
		return d.Name
	}
	return "#" + strconv.Itoa(i)
}

// LoadCalendarFile parses path and writes its content into w. Entries the
// store already holds are skipped. It returns the number of entries and
// periods written.
func LoadCalendarFile(ctx context.Context, path string, win Window, w calendar.Writer, log logging.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "reading calendar seed").WithDetail(path)
	}
	entries, periods, err := ParseCalendar(bytes.NewReader(data), win)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, e := range entries {
		if err := w.AddEntry(ctx, e); err != nil {
			if errors.IsCode(err, errors.ErrCodeDuplicateEntry) {
				continue
			}
			return added, err
		}
		added++
	}
	for _, p := range periods {
		if err := w.AddSuspension(ctx, p); err != nil {
			return added, err
		}
		added++
	}
	log.Info("calendar seed loaded",
		logging.String("path", path),
		logging.Int("entries", len(entries)),
		logging.Int("suspensions", len(periods)),
		logging.Int("written", added))
	return added, nil
}

//Personal.AI order the ending
