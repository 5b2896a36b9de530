// Package catalog holds the reference table of canonical legal deadlines.
package catalog

import (
	"strings"

	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// Mode is the counting mode of a deadline.
type Mode string

const (
	// ModeBusinessDays counts only UTIL days (CPC art. 219).
	ModeBusinessDays Mode = "DIAS_UTEIS"
	// ModeCalendarDays counts every day.
	ModeCalendarDays Mode = "DIAS_CORRIDOS"
)

// IsValid reports whether m is a known counting mode.
func (m Mode) IsValid() bool {
	return m == ModeBusinessDays || m == ModeCalendarDays
}

// ParseMode accepts the canonical names plus the short forms "uteis" and
// "corridos", case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DIAS_UTEIS", "UTEIS", "BUSINESS":
		return ModeBusinessDays, nil
	case "DIAS_CORRIDOS", "CORRIDOS", "CALENDAR":
		return ModeCalendarDays, nil
	}
	return "", errors.InvalidParam("unknown counting mode").WithDetail(s)
}

// Class is the legal nature of a deadline.
type Class string

const (
	// ClassPeremptorio cannot be extended by agreement of the parties.
	ClassPeremptorio Class = "PEREMPTORIO"
	// ClassDilatorio may be extended by agreement.
	ClassDilatorio Class = "DILATORIO"
	// ClassImproprio binds judges and clerks; missing it has no preclusive
	// effect.
	ClassImproprio Class = "IMPROPRIO"
)

// IsValid reports whether c is a known class.
func (c Class) IsValid() bool {
	switch c {
	case ClassPeremptorio, ClassDilatorio, ClassImproprio:
		return true
	}
	return false
}

// ParseClass parses a class name, case-insensitive.
func ParseClass(s string) (Class, error) {
	c := Class(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", errors.InvalidParam("unknown deadline class").WithDetail(s)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Entry
// ─────────────────────────────────────────────────────────────────────────────

// Entry is a canonical legal deadline definition.
type Entry struct {
	// Code is the unique key, e.g. "CPC_335".
	Code     string `json:"code" yaml:"code"`
	Statute  string `json:"statute" yaml:"statute"`
	Article  string `json:"article" yaml:"article"`
	Title    string `json:"title" yaml:"title"`
	Category string `json:"category" yaml:"category"`
	// Duration in days, before any doubling.
	Duration int   `json:"duration" yaml:"duration"`
	Mode     Mode  `json:"mode" yaml:"mode"`
	Class    Class `json:"class" yaml:"class"`
	// PublicEntityDoubling is false when the statute sets a specific
	// deadline for the public entity (CPC art. 183 §2).
	PublicEntityDoubling bool `json:"public_entity_doubling" yaml:"public_entity_doubling"`
	// MultiLitigantDoubling covers litisconsortes with different counsel
	// (CPC art. 229).
	MultiLitigantDoubling bool `json:"multi_litigant_doubling" yaml:"multi_litigant_doubling"`
	// SuspendsOnRecess applies to calendar-day deadlines only: recess days do
	// not consume the count.
	SuspendsOnRecess bool     `json:"suspends_on_recess" yaml:"suspends_on_recess"`
	Trigger          string   `json:"trigger,omitempty" yaml:"trigger"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords"`
}

// ManualCode identifies entries built from caller-supplied values.
const ManualCode = "MANUAL"

// Manual is the fallback entry used when the caller supplies the duration and
// counting mode directly. Both doubling rules are allowed so that requested
// rules are decided by the request alone.
func Manual(duration int, mode Mode) Entry {
	return Entry{
		Code:                  ManualCode,
		Title:                 "Prazo informado manualmente",
		Category:              "MANUAL",
		Duration:              duration,
		Mode:                  mode,
		Class:                 ClassPeremptorio,
		PublicEntityDoubling:  true,
		MultiLitigantDoubling: true,
	}
}

// IsManual reports whether e came from Manual.
func (e Entry) IsManual() bool {
	return e.Code == ManualCode
}

// Validate checks the entry's structural invariants.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Code) == "" {
		return errors.New(errors.ErrCodeCatalogInvalidEntry, "catalog entry code is required")
	}
	if e.Duration <= 0 {
		return errors.New(errors.ErrCodeCatalogInvalidEntry, "catalog entry duration must be positive").WithDetail(e.Code)
	}
	if !e.Mode.IsValid() {
		return errors.New(errors.ErrCodeCatalogInvalidEntry, "catalog entry has unknown mode").WithDetail(e.Code + ": " + string(e.Mode))
	}
	if !e.Class.IsValid() {
		return errors.New(errors.ErrCodeCatalogInvalidEntry, "catalog entry has unknown class").WithDetail(e.Code + ": " + string(e.Class))
	}
	return nil
}

// Reference renders the legal citation, e.g. "CPC art. 335".
func (e Entry) Reference() string {
	switch {
	case e.Statute == "":
		return e.Article
	case e.Article == "":
		return e.Statute
	}
	return e.Statute + " art. " + e.Article
}

// NormalizeCode upper-cases code and maps separators to underscores.
func NormalizeCode(code string) string {
	r := strings.NewReplacer("-", "_", " ", "_", ".", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(code)))
}

//Personal.AI order the ending
