package computation

import (
	"time"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// Phase groups audit entries by the step of the algorithm that produced them.
type Phase string

const (
	PhaseInicio      Phase = "INICIO"
	PhaseContagem    Phase = "CONTAGEM"
	PhaseProrrogacao Phase = "PRORROGACAO"
)

// AuditEntry records the treatment of one visited day.
type AuditEntry struct {
	// DayIndex is the ordinal of the day in the count, 0 when the day did not
	// consume the count.
	DayIndex       int                     `json:"day_index"`
	Date           common.Date             `json:"date"`
	Weekday        string                  `json:"weekday"`
	Classification calendar.Classification `json:"classification"`
	Phase          Phase                   `json:"phase"`
	Counted        bool                    `json:"counted"`
	Note           string                  `json:"note"`
}

// IgnoredRule is a requested rule that did not apply.
type IgnoredRule struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// Result is the outcome of one computation. It is never mutated after
// Compute returns.
type Result struct {
	DueDate    common.Date  `json:"due_date"`
	AuditTrail []AuditEntry `json:"audit_trail"`
	// SkippedDays lists the days passed over because of their
	// classification. The publication day of an electronic notice and the
	// due date itself are not included.
	SkippedDays     []common.Date `json:"skipped_days"`
	SkippedDayCount int           `json:"skipped_day_count"`
	// LowConfidence flags that the court is unregistered or its calendar
	// held no state or court data. The date must be reviewed by a person
	// before being relied upon.
	LowConfidence bool `json:"low_confidence"`

	Court              calendar.Court `json:"court"`
	TriggerDate        common.Date    `json:"trigger_date"`
	CountStart         common.Date    `json:"count_start"`
	ProvisionalDueDate common.Date    `json:"provisional_due_date"`
	BaseDuration       int            `json:"base_duration"`
	EffectiveDuration  int            `json:"effective_duration"`
	AppliedRules       []string       `json:"applied_rules"`
	IgnoredRules       []IgnoredRule  `json:"ignored_rules,omitempty"`
	CalendarVersion    string         `json:"calendar_version"`
	CatalogCode        string         `json:"catalog_code,omitempty"`
	Warnings           []string       `json:"warnings,omitempty"`
}

// Rolled reports whether the due date moved past the provisional date.
func (r *Result) Rolled() bool {
	return r.DueDate.After(r.ProvisionalDueDate)
}

// ─────────────────────────────────────────────────────────────────────────────
// Notes
// ─────────────────────────────────────────────────────────────────────────────

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// WeekdayName returns the Portuguese name of d's weekday.
func WeekdayName(d common.Date) string {
	return weekdayNames[d.Weekday()]
}

var scopeLabels = map[calendar.Scope]string{
	calendar.ScopeNacional:         "feriado nacional",
	calendar.ScopeEstadual:         "feriado estadual",
	calendar.ScopeMunicipal:        "feriado municipal",
	calendar.ScopeForense:          "feriado forense",
	calendar.ScopePontoFacultativo: "ponto facultativo",
}

// describe renders why a day has its classification, e.g.
// "feriado nacional (Natal)".
func describe(info calendar.DayInfo) string {
	switch info.Classification {
	case calendar.DayRecesso:
		return "recesso forense"
	case calendar.DaySuspensao:
		if info.Period != nil {
			return "suspensão de prazos (" + string(info.Period.Kind) + ")"
		}
		return "suspensão de prazos"
	case calendar.DayFeriado:
		if info.Entry != nil {
			return scopeLabels[info.Entry.Scope] + " (" + info.Entry.Name + ")"
		}
		return "feriado"
	case calendar.DayFimDeSemana:
		return WeekdayName(info.Date)
	}
	if info.ExtendsDeadlines {
		return "dia útil com expediente reduzido"
	}
	return "dia útil"
}

//Personal.AI order the ending
