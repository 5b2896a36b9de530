package computation

import (
	"fmt"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// DefaultMaxIterations bounds the number of days a single computation may
// visit (about ten years).
const DefaultMaxIterations = 3650

// Engine computes deadlines. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	maxIterations int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxIterations overrides DefaultMaxIterations. Non-positive values are
// ignored.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// NewEngine returns an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxIterations returns the configured day bound.
func (e *Engine) MaxIterations() int { return e.maxIterations }

// walk carries the state of one computation.
type walk struct {
	snap   *calendar.Snapshot
	limit  int
	steps  int
	result *Result
}

func (w *walk) visit(d common.Date) (calendar.DayInfo, error) {
	w.steps++
	if w.steps > w.limit {
		return calendar.DayInfo{}, errors.New(errors.CodeComputationError, "iteration bound exceeded").
			WithDetail(fmt.Sprintf("more than %d days visited", w.limit))
	}
	if !w.snap.Covers(d) {
		return calendar.DayInfo{}, errors.New(errors.CodeComputationError, "calendar snapshot does not cover the computation").
			WithDetail(fmt.Sprintf("%s outside [%s, %s]", d, w.snap.From(), w.snap.To()))
	}
	return w.snap.Explain(d), nil
}

func (w *walk) log(info calendar.DayInfo, phase Phase, index int, counted bool, note string) {
	w.result.AuditTrail = append(w.result.AuditTrail, AuditEntry{
		DayIndex:       index,
		Date:           info.Date,
		Weekday:        WeekdayName(info.Date),
		Classification: info.Classification,
		Phase:          phase,
		Counted:        counted,
		Note:           note,
	})
}

// skipToBusinessDay logs every non-UTIL day from d on and returns the first
// UTIL day.
func (w *walk) skipToBusinessDay(d common.Date, reason string) (common.Date, calendar.DayInfo, error) {
	for {
		info, err := w.visit(d)
		if err != nil {
			return d, info, err
		}
		if info.Classification.IsWorking() {
			return d, info, nil
		}
		w.log(info, PhaseInicio, 0, false, describe(info)+" — "+reason)
		d = d.AddDays(1)
	}
}

// Compute runs the algorithm: effective start, multipliers, forward count and
// roll-forward. A nil snapshot is treated as an empty calendar for req.Court.
func (e *Engine) Compute(req Request, snap *calendar.Snapshot) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if snap == nil {
		snap = calendar.EmptySnapshot(req.Court)
	}

	res := &Result{
		Court:           req.Court,
		TriggerDate:     req.TriggerDate,
		BaseDuration:    req.Duration,
		CalendarVersion: snap.Version(),
		CatalogCode:     req.CatalogCode,
		AppliedRules:    []string{},
		SkippedDays:     []common.Date{},
		LowConfidence:   snap.LowConfidence(),
	}
	w := &walk{snap: snap, limit: e.maxIterations, result: res}

	// ── Step 1: effective start ──────────────────────────────────────────────
	start, err := w.effectiveStart(req)
	if err != nil {
		return nil, err
	}
	res.CountStart = start

	// ── Step 2: multipliers ──────────────────────────────────────────────────
	doubled, suspendOnRecess := applyRules(req, res)
	res.EffectiveDuration = req.Duration
	if doubled {
		res.EffectiveDuration = req.Duration * 2
	}

	// ── Step 3: count forward ────────────────────────────────────────────────
	provisional, err := w.count(start, req.Mode, res.EffectiveDuration, suspendOnRecess)
	if err != nil {
		return nil, err
	}
	res.ProvisionalDueDate = provisional

	// ── Step 4: roll forward ─────────────────────────────────────────────────
	due, err := w.rollForward(provisional)
	if err != nil {
		return nil, err
	}
	if due.Before(req.TriggerDate) || due.Equal(req.TriggerDate) {
		return nil, errors.New(errors.CodeComputationError, "due date does not follow trigger date").
			WithDetail(fmt.Sprintf("trigger=%s due=%s", req.TriggerDate, due))
	}
	res.DueDate = due

	// ── Step 5: emit ─────────────────────────────────────────────────────────
	for i, a := range res.AuditTrail {
		if a.Counted || (i == len(res.AuditTrail)-1 && a.Date.Equal(due)) {
			continue
		}
		if a.Phase == PhaseInicio && a.Classification.IsWorking() {
			continue // publication day
		}
		res.SkippedDays = append(res.SkippedDays, a.Date)
	}
	res.SkippedDayCount = len(res.SkippedDays)
	switch {
	case snap.Empty():
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"calendário sem dados para %s: apenas fins de semana foram considerados; confira a data manualmente", req.Court.Code))
	case snap.OnlyNational():
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"calendário de %s contém apenas feriados nacionais; feriados locais podem não ter sido considerados", req.Court.Code))
	}
	return res, nil
}

func validate(req Request) error {
	if req.TriggerDate.IsZero() {
		return errors.InvalidParam("trigger date is required")
	}
	if req.Duration <= 0 {
		return errors.New(errors.CodeInvalidDuration, "duration must be positive").
			WithDetail(fmt.Sprintf("duration=%d", req.Duration))
	}
	if !req.Mode.IsValid() {
		return errors.InvalidParam("unknown counting mode").WithDetail(string(req.Mode))
	}
	if !req.TriggerKind.IsValid() {
		return errors.InvalidParam("unknown trigger kind").WithDetail(string(req.TriggerKind))
	}
	if req.Class != "" && !req.Class.IsValid() {
		return errors.InvalidParam("unknown deadline class").WithDetail(string(req.Class))
	}
	return nil
}

func (w *walk) effectiveStart(req Request) (common.Date, error) {
	next := req.TriggerDate.AddDays(1)
	switch req.TriggerKind {
	case TriggerPublicacaoDiario:
		start, _, err := w.skipToBusinessDay(next, "início da contagem adiado para o primeiro dia útil")
		return start, err

	case TriggerDisponibilizacao:
		published, info, err := w.skipToBusinessDay(next, "publicação adiada para o primeiro dia útil")
		if err != nil {
			return published, err
		}
		w.log(info, PhaseInicio, 0, false,
			"data da publicação — primeiro dia útil após a disponibilização (Lei 11.419/2006, art. 4º, §3º)")
		start, _, err := w.skipToBusinessDay(published.AddDays(1), "início da contagem adiado para o primeiro dia útil")
		return start, err
	}
	return next, nil
}

// applyRules records applied and ignored rules and reports whether the
// duration doubles and whether recess suspends a calendar-day count.
func applyRules(req Request, res *Result) (doubled, suspendOnRecess bool) {
	seen := make(map[string]struct{}, len(req.Rules))
	for _, rule := range req.Rules {
		if rule == nil {
			continue
		}
		if _, dup := seen[rule.Name()]; dup {
			continue
		}
		seen[rule.Name()] = struct{}{}

		ok, reason := rule.applicable(req)
		if !ok {
			res.IgnoredRules = append(res.IgnoredRules, IgnoredRule{Rule: rule.Name(), Reason: reason})
			continue
		}
		res.AppliedRules = append(res.AppliedRules, rule.Name())
		if rule.doubles() {
			doubled = true
		}
		if _, isRecess := rule.(RuleRecessSuspension); isRecess {
			suspendOnRecess = true
		}
	}
	return doubled, suspendOnRecess
}

func (w *walk) count(start common.Date, mode catalog.Mode, total int, suspendOnRecess bool) (common.Date, error) {
	cur := start
	counted := 0
	for {
		info, err := w.visit(cur)
		if err != nil {
			return cur, err
		}

		consumes := info.Classification.IsWorking()
		if mode == catalog.ModeCalendarDays {
			consumes = !(suspendOnRecess && info.InRecess())
		}

		if consumes {
			counted++
			note := fmt.Sprintf("%s — conta como dia %d de %d", describe(info), counted, total)
			if mode == catalog.ModeCalendarDays && !info.Classification.IsWorking() {
				note = fmt.Sprintf("%s — dia corrido, conta como dia %d de %d", describe(info), counted, total)
			}
			w.log(info, PhaseContagem, counted, true, note)
			if counted == total {
				return cur, nil
			}
		} else {
			w.log(info, PhaseContagem, 0, false, describe(info)+" — não conta")
		}
		cur = cur.AddDays(1)
	}
}

func (w *walk) rollForward(provisional common.Date) (common.Date, error) {
	info := w.snap.Explain(provisional)
	if info.Classification.IsWorking() && !info.ExtendsDeadlines {
		return provisional, nil
	}
	cur := provisional
	for {
		cur = cur.AddDays(1)
		info, err := w.visit(cur)
		if err != nil {
			return cur, err
		}
		if info.Classification.IsWorking() && !info.ExtendsDeadlines {
			w.log(info, PhaseProrrogacao, 0, false, "dia útil — vencimento prorrogado para esta data")
			return cur, nil
		}
		w.log(info, PhaseProrrogacao, 0, false, describe(info)+" — vencimento prorrogado")
	}
}

//Personal.AI order the ending
