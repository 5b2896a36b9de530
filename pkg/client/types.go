package client

import (
	"time"

	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Deadlines
// ---------------------------------------------------------------------------

// ComputeRequest asks for one deadline. Give either CatalogCode or Duration;
// when both are set the catalog entry wins.
type ComputeRequest struct {
	CatalogCode          string      `json:"catalog_code,omitempty"`
	TriggerDate          common.Date `json:"trigger_date"`
	TriggerKind          string      `json:"trigger_kind,omitempty"`
	Duration             int         `json:"duration,omitempty"`
	Mode                 string      `json:"mode,omitempty"`
	Class                string      `json:"class,omitempty"`
	Rules                []string    `json:"rules,omitempty"`
	Court                string      `json:"court,omitempty"`
	ElectronicProceeding bool        `json:"electronic_proceeding,omitempty"`
}

// Court identifies a court and the jurisdiction whose calendar applies.
type Court struct {
	Code string `json:"code"`
	UF   string `json:"uf,omitempty"`
	Tier string `json:"tier,omitempty"`
	Name string `json:"name,omitempty"`
}

// AuditEntry records the treatment of one visited day.
type AuditEntry struct {
	DayIndex       int         `json:"day_index"`
	Date           common.Date `json:"date"`
	Weekday        string      `json:"weekday"`
	Classification string      `json:"classification"`
	Phase          string      `json:"phase"`
	Counted        bool        `json:"counted"`
	Note           string      `json:"note"`
}

// IgnoredRule is a requested rule that did not apply.
type IgnoredRule struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// Result is a computed deadline with its audit trail.
type Result struct {
	DueDate            common.Date   `json:"due_date"`
	AuditTrail         []AuditEntry  `json:"audit_trail"`
	SkippedDays        []common.Date `json:"skipped_days"`
	SkippedDayCount    int           `json:"skipped_day_count"`
	LowConfidence      bool          `json:"low_confidence"`
	Court              Court         `json:"court"`
	TriggerDate        common.Date   `json:"trigger_date"`
	CountStart         common.Date   `json:"count_start"`
	ProvisionalDueDate common.Date   `json:"provisional_due_date"`
	BaseDuration       int           `json:"base_duration"`
	EffectiveDuration  int           `json:"effective_duration"`
	AppliedRules       []string      `json:"applied_rules"`
	IgnoredRules       []IgnoredRule `json:"ignored_rules,omitempty"`
	CalendarVersion    string        `json:"calendar_version"`
	CatalogCode        string        `json:"catalog_code,omitempty"`
	Warnings           []string      `json:"warnings,omitempty"`
}

// ComputeResponse is the body of POST /api/v1/deadlines/compute.
type ComputeResponse struct {
	Result      *Result  `json:"result"`
	RequestHash string   `json:"request_hash"`
	Cached      bool     `json:"cached"`
	Warnings    []string `json:"warnings,omitempty"`
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

// Holiday is one calendar entry.
type Holiday struct {
	Date              common.Date `json:"date"`
	Name              string      `json:"name"`
	Scope             string      `json:"scope"`
	UF                string      `json:"uf,omitempty"`
	CourtCode         string      `json:"court_code,omitempty"`
	SuspendsExpedient bool        `json:"suspends_expedient"`
	ExtendsDeadlines  bool        `json:"extends_deadlines"`
	LegalBasis        string      `json:"legal_basis,omitempty"`
}

// SuspensionPeriod is a recess or suspension span.
type SuspensionPeriod struct {
	Start             common.Date `json:"start"`
	End               common.Date `json:"end"`
	Kind              string      `json:"kind"`
	UF                string      `json:"uf,omitempty"`
	CourtCode         string      `json:"court_code,omitempty"`
	SuspendsDeadlines bool        `json:"suspends_deadlines"`
	SuspendsHearings  bool        `json:"suspends_hearings"`
	LegalBasis        string      `json:"legal_basis,omitempty"`
}

// DayInfo explains the classification of one date.
type DayInfo struct {
	Date             common.Date       `json:"date"`
	Classification   string            `json:"classification"`
	Entry            *Holiday          `json:"entry,omitempty"`
	Period           *SuspensionPeriod `json:"period,omitempty"`
	ExtendsDeadlines bool              `json:"extends_deadlines"`
}

// DayResponse is the body of GET /api/v1/calendar/classify.
type DayResponse struct {
	Court         Court    `json:"court"`
	Day           DayInfo  `json:"day"`
	Working       bool     `json:"working"`
	Reason        string   `json:"reason,omitempty"`
	LowConfidence bool     `json:"low_confidence"`
	Warnings      []string `json:"warnings,omitempty"`
}

// RangeResponse is the body of GET /api/v1/calendar/days.
type RangeResponse struct {
	Court         Court       `json:"court"`
	From          common.Date `json:"from"`
	To            common.Date `json:"to"`
	Days          []DayInfo   `json:"days"`
	BusinessDays  int         `json:"business_days"`
	LowConfidence bool        `json:"low_confidence"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// ---------------------------------------------------------------------------
// Conflicts
// ---------------------------------------------------------------------------

// Deadline is one item of a portfolio submitted for conflict detection.
type Deadline struct {
	ID           string      `json:"id"`
	Party        string      `json:"party"`
	Title        string      `json:"title,omitempty"`
	DueDate      common.Date `json:"due_date"`
	Class        string      `json:"class"`
	Status       string      `json:"status,omitempty"`
	Court        Court       `json:"court"`
	Hearing      bool        `json:"hearing,omitempty"`
	HearingStart time.Time   `json:"hearing_start,omitempty"`
	HearingEnd   time.Time   `json:"hearing_end,omitempty"`
	DependsOn    []string    `json:"depends_on,omitempty"`
}

// Finding is one detected conflict.
type Finding struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Severity    string      `json:"severity"`
	Party       string      `json:"party"`
	Description string      `json:"description"`
	DeadlineIDs []string    `json:"deadline_ids"`
	Suggestion  string      `json:"suggestion"`
	Date        common.Date `json:"date"`
	Week        string      `json:"week,omitempty"`
}

// ConflictResponse is the body of POST /api/v1/conflicts/detect.
type ConflictResponse struct {
	Findings   []Finding      `json:"findings"`
	BySeverity map[string]int `json:"by_severity"`
	Analysed   int            `json:"analysed"`
}

// ---------------------------------------------------------------------------
// Catalog and admin
// ---------------------------------------------------------------------------

// CatalogEntry is one statutory deadline of the catalog.
type CatalogEntry struct {
	Code                  string   `json:"code"`
	Statute               string   `json:"statute"`
	Article               string   `json:"article"`
	Title                 string   `json:"title"`
	Category              string   `json:"category"`
	Duration              int      `json:"duration"`
	Mode                  string   `json:"mode"`
	Class                 string   `json:"class"`
	PublicEntityDoubling  bool     `json:"public_entity_doubling"`
	MultiLitigantDoubling bool     `json:"multi_litigant_doubling"`
	SuspendsOnRecess      bool     `json:"suspends_on_recess"`
	Trigger               string   `json:"trigger,omitempty"`
	Keywords              []string `json:"keywords,omitempty"`
}

// CatalogQuery filters GET /api/v1/catalog.
type CatalogQuery struct {
	Text     string
	Statute  string
	Category string
	Class    string
	Mode     string
	Limit    int
}

// CatalogList is the body of GET /api/v1/catalog.
type CatalogList struct {
	Entries []CatalogEntry `json:"entries"`
	Total   int            `json:"total"`
}

// InvalidationReport describes one cache purge.
type InvalidationReport struct {
	Trigger          string `json:"trigger"`
	CalendarVersion  string `json:"calendar_version"`
	SnapshotsDropped int    `json:"snapshots_dropped"`
	ResultsDropped   int    `json:"results_dropped"`
	RemoteDropped    int64  `json:"remote_dropped"`
}

//Personal.AI order the ending
