// Package conflict detects scheduling conflicts over a portfolio of computed
// deadlines.
package conflict

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Input
// ─────────────────────────────────────────────────────────────────────────────

// Status of a deadline in the portfolio.
type Status string

const (
	StatusPendente  Status = "PENDENTE"
	StatusCumprido  Status = "CUMPRIDO"
	StatusCancelado Status = "CANCELADO"
)

// Deadline is one already-computed deadline or scheduled hearing.
type Deadline struct {
	ID      string         `json:"id"`
	Party   string         `json:"party"`
	Title   string         `json:"title,omitempty"`
	DueDate common.Date    `json:"due_date"`
	Class   catalog.Class  `json:"class"`
	Status  Status         `json:"status,omitempty"`
	Court   calendar.Court `json:"court"`
	// Hearing marks scheduled hearings. HearingStart/HearingEnd narrow the
	// slot; without them the hearing occupies the whole day.
	Hearing      bool      `json:"hearing,omitempty"`
	HearingStart time.Time `json:"hearing_start,omitempty"`
	HearingEnd   time.Time `json:"hearing_end,omitempty"`
	// DependsOn lists IDs of deadlines that must be met first.
	DependsOn []string `json:"depends_on,omitempty"`
}

// Pending reports whether the deadline still has to be met. An empty status
// counts as pending.
func (d Deadline) Pending() bool {
	return d.Status == "" || d.Status == StatusPendente
}

// Peremptory reports whether the deadline is a peremptory (non-hearing) one.
func (d Deadline) Peremptory() bool {
	return !d.Hearing && d.Class == catalog.ClassPeremptorio
}

// slot returns the hearing interval, defaulting to the whole due date as a
// civil day in loc.
func (d Deadline) slot(loc *time.Location) (time.Time, time.Time) {
	start, end := d.HearingStart, d.HearingEnd
	if start.IsZero() {
		start = d.DueDate.In(loc)
	}
	if end.IsZero() || !end.After(start) {
		if d.HearingStart.IsZero() {
			end = d.DueDate.AddDays(1).In(loc)
		} else {
			end = start.Add(time.Hour)
		}
	}
	return start, end
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// Kind of conflict.
type Kind string

const (
	KindChoqueDireto            Kind = "CHOQUE_DIRETO"
	KindSobrecargaSemanal       Kind = "SOBRECARGA_SEMANAL"
	KindDependenciaNaoResolvida Kind = "DEPENDENCIA_NAO_RESOLVIDA"
	KindDataImpossivel          Kind = "DATA_IMPOSSIVEL"
	KindColisaoRecesso          Kind = "COLISAO_RECESSO"
	KindAudienciaDuplicada      Kind = "AUDIENCIA_DUPLICADA"
)

// Severity of a finding.
type Severity string

const (
	SeverityCritica Severity = "CRITICA"
	SeverityAlta    Severity = "ALTA"
	SeverityMedia   Severity = "MEDIA"
	SeverityBaixa   Severity = "BAIXA"
)

// Rank orders severities, most severe first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritica:
		return 0
	case SeverityAlta:
		return 1
	case SeverityMedia:
		return 2
	}
	return 3
}

// Finding is one detected conflict.
type Finding struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Severity    Severity    `json:"severity"`
	Party       string      `json:"party"`
	Description string      `json:"description"`
	DeadlineIDs []string    `json:"deadline_ids"`
	Suggestion  string      `json:"suggestion"`
	Date        common.Date `json:"date"`
	// Week is the ISO week ("2026-W11") for weekly overload findings.
	Week string `json:"week,omitempty"`
}

var findingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:prazocerto:conflict"))

// findingID derives a stable UUIDv5 from the kind, the sorted deadline IDs
// and an optional discriminator.
func findingID(kind Kind, ids []string, extra string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	name := string(kind) + "|" + strings.Join(sorted, ",")
	if extra != "" {
		name += "|" + extra
	}
	return uuid.NewSHA1(findingNamespace, []byte(name)).String()
}

func isoWeek(d common.Date) string {
	y, w := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// SortFindings orders findings by severity, party, date, kind and ID.
func SortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Party != b.Party {
			return a.Party < b.Party
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
}

//Personal.AI order the ending
