package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Recurring holiday definitions
// ─────────────────────────────────────────────────────────────────────────────

// recurring describes a yearly date either by month/day or by offset from
// Easter Sunday.
type recurring struct {
	name       string
	month      time.Month
	day        int
	easter     int
	fromEaster bool
	since      int
	basis      string
	// court-scoped entries only
	suspends bool
	extends  bool
}

func (r recurring) option(fromYear, toYear int) rrule.ROption {
	start := fromYear
	if r.since > start {
		start = r.since
	}
	opt := rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: time.Date(start, time.January, 1, 0, 0, 0, 0, time.UTC),
		Until:   time.Date(toYear, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if r.fromEaster {
		opt.Byeaster = []int{r.easter}
	} else {
		opt.Bymonth = []int{int(r.month)}
		opt.Bymonthday = []int{r.day}
	}
	return opt
}

var nationalHolidays = []recurring{
	{name: "Confraternização Universal", month: time.January, day: 1, basis: "Lei 662/1949"},
	{name: "Sexta-feira Santa", fromEaster: true, easter: -2, basis: "Lei 9.093/1995"},
	{name: "Tiradentes", month: time.April, day: 21, basis: "Lei 662/1949"},
	{name: "Dia do Trabalho", month: time.May, day: 1, basis: "Lei 662/1949"},
	{name: "Independência do Brasil", month: time.September, day: 7, basis: "Lei 662/1949"},
	{name: "Nossa Senhora Aparecida", month: time.October, day: 12, basis: "Lei 6.802/1980"},
	{name: "Finados", month: time.November, day: 2, basis: "Lei 662/1949"},
	{name: "Proclamação da República", month: time.November, day: 15, basis: "Lei 662/1949"},
	{name: "Dia Nacional de Zumbi e da Consciência Negra", month: time.November, day: 20, since: 2024, basis: "Lei 14.759/2023"},
	{name: "Natal", month: time.December, day: 25, basis: "Lei 662/1949"},
}

var federalJusticeHolidays = []recurring{
	{name: "Carnaval (segunda-feira)", fromEaster: true, easter: -48, basis: "Lei 5.010/1966, art. 62, III", suspends: true},
	{name: "Carnaval (terça-feira)", fromEaster: true, easter: -47, basis: "Lei 5.010/1966, art. 62, III", suspends: true},
	{name: "Quarta-feira da Semana Santa", fromEaster: true, easter: -4, basis: "Lei 5.010/1966, art. 62, II", suspends: true},
	{name: "Quinta-feira da Semana Santa", fromEaster: true, easter: -3, basis: "Lei 5.010/1966, art. 62, II", suspends: true},
	{name: "Dia da Justiça e dos Cursos Jurídicos", month: time.August, day: 11, basis: "Lei 5.010/1966, art. 62, IV", suspends: true},
	{name: "Todos os Santos", month: time.November, day: 1, basis: "Lei 5.010/1966, art. 62, IV", suspends: true},
	{name: "Imaculada Conceição", month: time.December, day: 8, basis: "Lei 5.010/1966, art. 62, IV", suspends: true},
}

var optionalClosures = []recurring{
	{name: "Carnaval (segunda-feira)", fromEaster: true, easter: -48, basis: "ponto facultativo", suspends: true},
	{name: "Carnaval (terça-feira)", fromEaster: true, easter: -47, basis: "ponto facultativo", suspends: true},
	{name: "Quarta-feira de Cinzas (expediente reduzido)", fromEaster: true, easter: -46, basis: "ponto facultativo", extends: true},
	{name: "Corpus Christi", fromEaster: true, easter: 60, basis: "ponto facultativo", suspends: true},
}

// ─────────────────────────────────────────────────────────────────────────────
// Generators
// ─────────────────────────────────────────────────────────────────────────────

func expand(defs []recurring, fromYear, toYear int, build func(recurring, common.Date) Entry) ([]Entry, error) {
	if toYear < fromYear {
		return nil, errors.New(errors.ErrCodeInvalidRange, "toYear precedes fromYear").
			WithDetail(fmt.Sprintf("%d..%d", fromYear, toYear))
	}
	out := make([]Entry, 0, len(defs)*(toYear-fromYear+1))
	for _, def := range defs {
		if def.since > toYear {
			continue
		}
		rule, err := rrule.NewRRule(def.option(fromYear, toYear))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidRecurrence, "building recurrence for "+def.name)
		}
		for _, t := range rule.All() {
			out = append(out, build(def, common.DateOf(t)))
		}
	}
	SortEntries(out)
	return out, nil
}

// NationalHolidays generates the federal holidays for every year in
// [fromYear, toYear]. Holidays instituted later (Consciência Negra, 2024) only
// appear from their first year.
func NationalHolidays(fromYear, toYear int) ([]Entry, error) {
	return expand(nationalHolidays, fromYear, toYear, func(def recurring, d common.Date) Entry {
		return Entry{
			Date:              d,
			Name:              def.name,
			Scope:             ScopeNacional,
			SuspendsExpedient: true,
			LegalBasis:        def.basis,
		}
	})
}

// FederalJusticeHolidays generates the forensic holidays of the federal
// justice for courtCode.
func FederalJusticeHolidays(courtCode string, fromYear, toYear int) ([]Entry, error) {
	code := NormalizeCode(courtCode)
	return expand(federalJusticeHolidays, fromYear, toYear, func(def recurring, d common.Date) Entry {
		return Entry{
			Date:              d,
			Name:              def.name,
			Scope:             ScopeForense,
			CourtCode:         code,
			SuspendsExpedient: def.suspends,
			ExtendsDeadlines:  def.extends,
			LegalBasis:        def.basis,
		}
	})
}

// OptionalClosures generates the customary optional closures (Carnaval, Ash
// Wednesday, Corpus Christi) for courtCode. Courts opt in explicitly.
func OptionalClosures(courtCode string, fromYear, toYear int) ([]Entry, error) {
	code := NormalizeCode(courtCode)
	return expand(optionalClosures, fromYear, toYear, func(def recurring, d common.Date) Entry {
		return Entry{
			Date:              d,
			Name:              def.name,
			Scope:             ScopePontoFacultativo,
			CourtCode:         code,
			SuspendsExpedient: def.suspends,
			ExtendsDeadlines:  def.extends,
			LegalBasis:        def.basis,
		}
	})
}

// NationalSuspensions returns the deadline suspension of art. 220 CPC
// (20 December to 20 January) for every year boundary in [fromYear, toYear].
func NationalSuspensions(fromYear, toYear int) []SuspensionPeriod {
	out := make([]SuspensionPeriod, 0, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		out = append(out, SuspensionPeriod{
			Start:             common.NewDate(y, time.December, 20),
			End:               common.NewDate(y+1, time.January, 20),
			Kind:              KindSuspensaoArt220,
			SuspendsDeadlines: true,
			SuspendsHearings:  true,
			LegalBasis:        "CPC, art. 220",
		})
	}
	return out
}

// FederalRecess returns the year-end recess of the federal justice
// (20 December to 6 January) for courtCode.
func FederalRecess(courtCode string, fromYear, toYear int) []SuspensionPeriod {
	code := NormalizeCode(courtCode)
	out := make([]SuspensionPeriod, 0, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		out = append(out, SuspensionPeriod{
			Start:             common.NewDate(y, time.December, 20),
			End:               common.NewDate(y+1, time.January, 6),
			Kind:              KindRecessoFimDeAno,
			CourtCode:         code,
			SuspendsDeadlines: true,
			SuspendsHearings:  true,
			LegalBasis:        "Lei 5.010/1966, art. 62, I",
		})
	}
	return out
}

// ExpandRule evaluates an RFC 5545 RRULE (with or without the "RRULE:"
// prefix) between from and to inclusive. When the rule carries no DTSTART,
// from is used.
func ExpandRule(rule string, from, to common.Date) ([]common.Date, error) {
	if to.Before(from) {
		return nil, errors.New(errors.ErrCodeInvalidRange, "rule window end precedes start")
	}
	spec := strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	opt, err := rrule.StrToROption(spec)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidRecurrence, "parsing recurrence rule").WithDetail(rule)
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = from.Time()
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidRecurrence, "building recurrence rule").WithDetail(rule)
	}
	times := r.Between(from.Time(), to.Time(), true)
	out := make([]common.Date, 0, len(times))
	for _, t := range times {
		out = append(out, common.DateOf(t))
	}
	return out, nil
}

// SeedNational loads national holidays and the art. 220 suspension for
// [fromYear, toYear] into w. Duplicate entries are skipped.
func SeedNational(ctx context.Context, w Writer, fromYear, toYear int) (int, error) {
	entries, err := NationalHolidays(fromYear, toYear)
	if err != nil {
		return 0, err
	}
	return seed(ctx, w, entries, NationalSuspensions(fromYear, toYear))
}

// SeedFederalJustice loads the forensic holidays and the year-end recess of
// the federal court courtCode.
func SeedFederalJustice(ctx context.Context, w Writer, courtCode string, fromYear, toYear int) (int, error) {
	entries, err := FederalJusticeHolidays(courtCode, fromYear, toYear)
	if err != nil {
		return 0, err
	}
	return seed(ctx, w, entries, FederalRecess(courtCode, fromYear, toYear))
}

// SeedOptionalClosures loads the optional closures of courtCode.
func SeedOptionalClosures(ctx context.Context, w Writer, courtCode string, fromYear, toYear int) (int, error) {
	entries, err := OptionalClosures(courtCode, fromYear, toYear)
	if err != nil {
		return 0, err
	}
	return seed(ctx, w, entries, nil)
}

func seed(ctx context.Context, w Writer, entries []Entry, periods []SuspensionPeriod) (int, error) {
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
	}
	return added, nil
}

//Personal.AI order the ending
