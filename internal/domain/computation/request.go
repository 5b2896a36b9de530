// Package computation implements the deadline computation and audit engine.
// Given a request and an immutable calendar snapshot it produces a due date
// together with a day-by-day justification.
package computation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Trigger kinds
// ─────────────────────────────────────────────────────────────────────────────

// TriggerKind is the procedural event that starts a deadline.
type TriggerKind string

const (
	TriggerIntimacaoPessoal  TriggerKind = "INTIMACAO_PESSOAL"
	TriggerIntimacaoAdvogado TriggerKind = "INTIMACAO_ADVOGADO"
	// TriggerPublicacaoDiario is a publication in the official gazette; the
	// count starts on the first business day after it.
	TriggerPublicacaoDiario TriggerKind = "PUBLICACAO_DIARIO"
	// TriggerDisponibilizacao is availability in the electronic gazette. The
	// first business day after availability is the publication date (Lei
	// 11.419/2006 art. 4º §3º) and the count starts on the business day after
	// that.
	TriggerDisponibilizacao TriggerKind = "DISPONIBILIZACAO_ELETRONICA"
	TriggerDecisao          TriggerKind = "DECISAO"
)

// IsValid reports whether k is a known trigger kind.
func (k TriggerKind) IsValid() bool {
	switch k {
	case TriggerIntimacaoPessoal, TriggerIntimacaoAdvogado, TriggerPublicacaoDiario,
		TriggerDisponibilizacao, TriggerDecisao:
		return true
	}
	return false
}

// ParseTriggerKind parses a trigger kind name, case-insensitive.
func ParseTriggerKind(s string) (TriggerKind, error) {
	k := TriggerKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", errors.InvalidParam("unknown trigger kind").WithDetail(s)
	}
	return k, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Rules
// ─────────────────────────────────────────────────────────────────────────────

// Rule is a special counting rule. The set is closed: only the rule types of
// this package implement it.
type Rule interface {
	// Name is the stable identifier used in requests and results.
	Name() string
	// applicable decides whether the rule applies to req and, when it does
	// not, why.
	applicable(req Request) (bool, string)
	// doubles reports whether the rule doubles the base duration.
	doubles() bool
}

// RulePublicEntityDoubling doubles deadlines of public entities, the Public
// Prosecutor and Public Defenders (CPC arts. 180, 183, 186).
type RulePublicEntityDoubling struct{}

func (RulePublicEntityDoubling) Name() string  { return "DOBRA_ENTE_PUBLICO" }
func (RulePublicEntityDoubling) doubles() bool { return true }

func (RulePublicEntityDoubling) applicable(req Request) (bool, string) {
	if req.Class == catalog.ClassImproprio {
		return false, "prazo impróprio não comporta contagem em dobro"
	}
	if req.PublicEntityDoublingExempt {
		return false, "a lei estabelece prazo próprio para o ente público (CPC art. 183, §2º)"
	}
	return true, ""
}

// RuleMultiLitigantDoubling doubles deadlines of co-litigants represented by
// different law firms (CPC art. 229).
type RuleMultiLitigantDoubling struct{}

func (RuleMultiLitigantDoubling) Name() string  { return "DOBRA_LITISCONSORTES" }
func (RuleMultiLitigantDoubling) doubles() bool { return true }

func (RuleMultiLitigantDoubling) applicable(req Request) (bool, string) {
	if req.ElectronicProceeding {
		return false, "processo eletrônico não admite prazo em dobro para litisconsortes (CPC art. 229, §2º)"
	}
	if req.MultiLitigantExempt {
		return false, "prazo não admite dobra para litisconsortes"
	}
	return true, ""
}

// RuleRecessSuspension stops calendar-day counts during recess.
type RuleRecessSuspension struct{}

func (RuleRecessSuspension) Name() string  { return "SUSPENSAO_RECESSO" }
func (RuleRecessSuspension) doubles() bool { return false }

func (RuleRecessSuspension) applicable(req Request) (bool, string) {
	if req.Mode != catalog.ModeCalendarDays {
		return false, "contagem em dias úteis já exclui o recesso"
	}
	return true, ""
}

var rulesByName = map[string]Rule{
	RulePublicEntityDoubling{}.Name():  RulePublicEntityDoubling{},
	RuleMultiLitigantDoubling{}.Name(): RuleMultiLitigantDoubling{},
	RuleRecessSuspension{}.Name():      RuleRecessSuspension{},
}

// RuleByName resolves a rule identifier.
func RuleByName(name string) (Rule, bool) {
	r, ok := rulesByName[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}

// ParseRules resolves every name or fails on the first unknown one.
func ParseRules(names []string) ([]Rule, error) {
	out := make([]Rule, 0, len(names))
	for _, n := range names {
		r, ok := RuleByName(n)
		if !ok {
			return nil, errors.InvalidParam("unknown rule").WithDetail(n)
		}
		out = append(out, r)
	}
	return out, nil
}

// RuleNames lists every known rule identifier, sorted.
func RuleNames() []string {
	out := make([]string, 0, len(rulesByName))
	for n := range rulesByName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Request
// ─────────────────────────────────────────────────────────────────────────────

// Request describes one deadline to compute.
type Request struct {
	TriggerDate common.Date
	TriggerKind TriggerKind
	Duration    int
	Mode        catalog.Mode
	Class       catalog.Class
	Rules       []Rule
	Court       calendar.Court

	// Exemptions derived from the catalog entry. The zero value lets a
	// requested doubling rule apply.
	PublicEntityDoublingExempt bool
	MultiLitigantExempt        bool

	ElectronicProceeding bool
	// CatalogCode is informational; it is echoed in the result.
	CatalogCode string
}

// FromCatalog fills duration, mode, class and doubling flags from e.
func FromCatalog(e catalog.Entry, trigger common.Date, kind TriggerKind, court calendar.Court) Request {
	req := Request{
		TriggerDate:                trigger,
		TriggerKind:                kind,
		Duration:                   e.Duration,
		Mode:                       e.Mode,
		Class:                      e.Class,
		Court:                      court,
		PublicEntityDoublingExempt: !e.PublicEntityDoubling,
		MultiLitigantExempt:        !e.MultiLitigantDoubling,
		CatalogCode:                e.Code,
	}
	if e.SuspendsOnRecess {
		req.Rules = append(req.Rules, RuleRecessSuspension{})
	}
	return req
}

// RuleNames returns the sorted, de-duplicated names of the requested rules.
func (r Request) RuleNames() []string {
	seen := make(map[string]struct{}, len(r.Rules))
	out := make([]string, 0, len(r.Rules))
	for _, rule := range r.Rules {
		if rule == nil {
			continue
		}
		if _, ok := seen[rule.Name()]; ok {
			continue
		}
		seen[rule.Name()] = struct{}{}
		out = append(out, rule.Name())
	}
	sort.Strings(out)
	return out
}

// Hash is a stable digest of every input that affects the result. Together
// with the calendar version it keys the result cache.
func (r Request) Hash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trigger=%s|kind=%s|duration=%d|mode=%s|class=%s|", r.TriggerDate, r.TriggerKind, r.Duration, r.Mode, r.Class)
	fmt.Fprintf(&b, "court=%s/%s/%s|", calendar.NormalizeCode(r.Court.Code), r.Court.UF, r.Court.Tier)
	fmt.Fprintf(&b, "public_exempt=%t|multi_exempt=%t|electronic=%t|", r.PublicEntityDoublingExempt, r.MultiLitigantExempt, r.ElectronicProceeding)
	fmt.Fprintf(&b, "rules=%s|catalog=%s", strings.Join(r.RuleNames(), ","), r.CatalogCode)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

//Personal.AI order the ending
