// Package calendar models judicial calendars: courts, holidays, suspension
// periods and the per-day classification used to count procedural deadlines.
package calendar

import (
	"fmt"
	"strings"

	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Court identity
// ─────────────────────────────────────────────────────────────────────────────

// Tier is the branch of the judiciary a court belongs to.
type Tier string

const (
	TierEstadual  Tier = "ESTADUAL"
	TierFederal   Tier = "FEDERAL"
	TierTrabalho  Tier = "TRABALHO"
	TierEleitoral Tier = "ELEITORAL"
	TierMilitar   Tier = "MILITAR"
	TierSuperior  Tier = "SUPERIOR"
)

// Court identifies the calendar a deadline is counted against. It is a lookup
// key only.
type Court struct {
	Code string `json:"code" yaml:"code"`
	UF   string `json:"uf,omitempty" yaml:"uf"`
	Tier Tier   `json:"tier,omitempty" yaml:"tier"`
	Name string `json:"name,omitempty" yaml:"name"`
}

// NationalOnly is the fallback for court codes absent from the registry. With
// no UF and no tier only national entries and entries explicitly scoped to
// code will match.
func NationalOnly(code string) Court {
	return Court{Code: NormalizeCode(code)}
}

// IsNationalOnly reports whether c carries no state or tier information.
func (c Court) IsNationalOnly() bool {
	return c.UF == "" && c.Tier == ""
}

func (c Court) String() string {
	if c.UF == "" {
		return c.Code
	}
	return c.Code + "/" + c.UF
}

// NormalizeCode upper-cases code and strips separators so "tj-sp", "TJ/SP"
// and "TJSP" compare equal.
func NormalizeCode(code string) string {
	r := strings.NewReplacer("-", "", "/", "", " ", "", ".", "", "_", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(code)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Calendar entries
// ─────────────────────────────────────────────────────────────────────────────

// Scope is the jurisdictional reach of a calendar entry.
type Scope string

const (
	ScopeNacional         Scope = "NACIONAL"
	ScopeEstadual         Scope = "ESTADUAL"
	ScopeMunicipal        Scope = "MUNICIPAL"
	ScopeForense          Scope = "FORENSE"
	ScopePontoFacultativo Scope = "PONTO_FACULTATIVO"
)

// IsValid reports whether s is a known scope.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeNacional, ScopeEstadual, ScopeMunicipal, ScopeForense, ScopePontoFacultativo:
		return true
	}
	return false
}

// Entry is one annotated calendar date. Entries are immutable reference data.
type Entry struct {
	Date      common.Date `json:"date" yaml:"date"`
	Name      string      `json:"name" yaml:"name"`
	Scope     Scope       `json:"scope" yaml:"scope"`
	UF        string      `json:"uf,omitempty" yaml:"uf"`
	CourtCode string      `json:"court_code,omitempty" yaml:"court_code"`
	// SuspendsExpedient means the court is closed for the whole day.
	SuspendsExpedient bool `json:"suspends_expedient" yaml:"suspends_expedient"`
	// ExtendsDeadlines means a deadline expiring on this date moves to the
	// next business day even if the court opened (early closure, outage).
	ExtendsDeadlines bool   `json:"extends_deadlines" yaml:"extends_deadlines"`
	LegalBasis       string `json:"legal_basis,omitempty" yaml:"legal_basis"`
}

// Validate checks the structural invariants of an entry.
func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return errors.InvalidParam("calendar entry date is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.InvalidParam("calendar entry name is required").WithDetail(e.Date.String())
	}
	if !e.Scope.IsValid() {
		return errors.InvalidParam("invalid calendar entry scope").WithDetail(string(e.Scope))
	}
	switch e.Scope {
	case ScopeEstadual:
		if e.UF == "" {
			return errors.InvalidParam("state entry requires uf").WithDetail(e.Name)
		}
	case ScopeMunicipal, ScopeForense, ScopePontoFacultativo:
		if e.CourtCode == "" {
			return errors.InvalidParam("court-scoped entry requires court_code").WithDetail(e.Name)
		}
	}
	return nil
}

// ScopeKey identifies the jurisdiction the entry belongs to. Together with
// the date it is unique within a store.
func (e Entry) ScopeKey() string {
	switch e.Scope {
	case ScopeNacional:
		return string(ScopeNacional)
	case ScopeEstadual:
		return string(ScopeEstadual) + ":" + strings.ToUpper(e.UF)
	default:
		return string(e.Scope) + ":" + NormalizeCode(e.CourtCode)
	}
}

// Matches reports whether the entry applies to court.
func (e Entry) Matches(court Court) bool {
	switch e.Scope {
	case ScopeNacional:
		return true
	case ScopeEstadual:
		return court.UF != "" && strings.EqualFold(e.UF, court.UF)
	default:
		return e.CourtCode != "" && NormalizeCode(e.CourtCode) == NormalizeCode(court.Code)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Suspension periods
// ─────────────────────────────────────────────────────────────────────────────

// SuspensionKind classifies a suspension period.
type SuspensionKind string

const (
	KindRecessoFimDeAno          SuspensionKind = "RECESSO_FIM_DE_ANO"
	KindRecessoJulho             SuspensionKind = "RECESSO_JULHO"
	KindSuspensaoArt220          SuspensionKind = "SUSPENSAO_ART_220"
	KindIndisponibilidadeSistema SuspensionKind = "INDISPONIBILIDADE_SISTEMA"
	KindLutoOficial              SuspensionKind = "LUTO_OFICIAL"
	KindForcaMaior               SuspensionKind = "FORCA_MAIOR"
	KindEleicoes                 SuspensionKind = "ELEICOES"
	KindOperacaoEspecial         SuspensionKind = "OPERACAO_ESPECIAL"
)

// IsRecess reports whether k is one of the annual recess kinds.
func (k SuspensionKind) IsRecess() bool {
	return k == KindRecessoFimDeAno || k == KindRecessoJulho
}

// HaltsRecessCounts reports whether a period of kind k stops calendar-day
// counts that suspend during recess. The year-end suspension of CPC art. 220
// is the recess of courts that keep no recess of their own.
func (k SuspensionKind) HaltsRecessCounts() bool {
	return k.IsRecess() || k == KindSuspensaoArt220
}

// IsValid reports whether k is a known kind.
func (k SuspensionKind) IsValid() bool {
	switch k {
	case KindRecessoFimDeAno, KindRecessoJulho, KindSuspensaoArt220, KindIndisponibilidadeSistema,
		KindLutoOficial, KindForcaMaior, KindEleicoes, KindOperacaoEspecial:
		return true
	}
	return false
}

// SuspensionPeriod is an inclusive date range during which a court suspends
// deadlines and/or hearings. Empty UF and CourtCode mean the period applies
// nationally; UF alone scopes it to a state; CourtCode scopes it to one court.
type SuspensionPeriod struct {
	Start             common.Date    `json:"start" yaml:"start"`
	End               common.Date    `json:"end" yaml:"end"`
	Kind              SuspensionKind `json:"kind" yaml:"kind"`
	UF                string         `json:"uf,omitempty" yaml:"uf"`
	CourtCode         string         `json:"court_code,omitempty" yaml:"court_code"`
	SuspendsDeadlines bool           `json:"suspends_deadlines" yaml:"suspends_deadlines"`
	SuspendsHearings  bool           `json:"suspends_hearings" yaml:"suspends_hearings"`
	LegalBasis        string         `json:"legal_basis,omitempty" yaml:"legal_basis"`
}

// Validate enforces Start <= End and a known kind.
func (p SuspensionPeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidSuspension, "suspension start and end are required")
	}
	if p.End.Before(p.Start) {
		return errors.New(errors.ErrCodeInvalidSuspension, "suspension end precedes start").
			WithDetail(fmt.Sprintf("start=%s end=%s", p.Start, p.End))
	}
	if !p.Kind.IsValid() {
		return errors.New(errors.ErrCodeInvalidSuspension, "unknown suspension kind").WithDetail(string(p.Kind))
	}
	return nil
}

// Covers reports whether d lies inside the period.
func (p SuspensionPeriod) Covers(d common.Date) bool {
	return d.Between(p.Start, p.End)
}

// Matches reports whether the period applies to court.
func (p SuspensionPeriod) Matches(court Court) bool {
	switch {
	case p.CourtCode != "":
		return NormalizeCode(p.CourtCode) == NormalizeCode(court.Code)
	case p.UF != "":
		return court.UF != "" && strings.EqualFold(p.UF, court.UF)
	default:
		return true
	}
}

// IsNational reports whether the period carries no state or court scope.
func (p SuspensionPeriod) IsNational() bool {
	return p.UF == "" && p.CourtCode == ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Day classification
// ─────────────────────────────────────────────────────────────────────────────

// Classification is the outcome of classifying one date for one court.
type Classification string

const (
	DayUtil        Classification = "UTIL"
	DayFeriado     Classification = "FERIADO"
	DayFimDeSemana Classification = "FIM_DE_SEMANA"
	DayRecesso     Classification = "RECESSO"
	DaySuspensao   Classification = "SUSPENSAO"
)

// IsWorking reports whether the classification is UTIL.
func (c Classification) IsWorking() bool {
	return c == DayUtil
}

//Personal.AI order the ending
