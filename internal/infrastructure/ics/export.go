package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

const productID = "-//PrazoCerto//Prazos Processuais//PT-BR"

// eventNamespace seeds deterministic UIDs so re-exporting the same deadline
// updates the event in the subscriber's calendar instead of duplicating it.
var eventNamespace = uuid.MustParse("6f1c2a8e-4b7d-4f0e-9a53-2d8c1e0b7f44")

// DeadlineEvent is one computed deadline to export.
type DeadlineEvent struct {
	// Key identifies the deadline across exports (e.g. the request hash or
	// the caller's deadline ID).
	Key         string
	Title       string
	Due         common.Date
	Court       string
	Description string
	// AlarmDaysBefore adds a display alarm; 0 disables it.
	AlarmDaysBefore int
}

// FromResult describes res as an exportable event. The description lists
// the applied rules and the skipped days so the calendar entry is auditable
// on its own.
func FromResult(key, title string, res *computation.Result) DeadlineEvent {
	var b strings.Builder
	fmt.Fprintf(&b, "Intimação: %s\n", res.TriggerDate)
	fmt.Fprintf(&b, "Início da contagem: %s\n", res.CountStart)
	fmt.Fprintf(&b, "Prazo: %d dias (base %d)\n", res.EffectiveDuration, res.BaseDuration)
	if len(res.AppliedRules) > 0 {
		fmt.Fprintf(&b, "Regras: %s\n", strings.Join(res.AppliedRules, ", "))
	}
	if res.CatalogCode != "" {
		fmt.Fprintf(&b, "Catálogo: %s\n", res.CatalogCode)
	}
	if res.LowConfidence {
		b.WriteString("ATENÇÃO: calendário do tribunal sem dados locais — conferir manualmente.\n")
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "Aviso: %s\n", w)
	}
	if title == "" {
		title = "Prazo processual"
	}
	return DeadlineEvent{
		Key:             key,
		Title:           title,
		Due:             res.DueDate,
		Court:           res.Court.Code,
		Description:     strings.TrimRight(b.String(), "\n"),
		AlarmDaysBefore: 2,
	}
}

// ExportDeadlines renders events as an iCalendar document.
func ExportDeadlines(events []DeadlineEvent, now time.Time) string {
	cal := newCalendar("Prazos")
	for _, e := range events {
		ev := cal.AddEvent(uuid.NewSHA1(eventNamespace, []byte(e.Key+"|"+e.Due.String())).String() + "@prazocerto")
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(e.Due.Time())
		ev.SetAllDayEndAt(e.Due.AddDays(1).Time())
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Court != "" {
			ev.SetLocation(e.Court)
		}
		ev.SetProperty(ical.ComponentPropertyCategories, "PRAZO")
		if e.AlarmDaysBefore > 0 {
			alarm := ev.AddAlarm()
			alarm.SetProperty(ical.ComponentPropertyAction, "DISPLAY")
			alarm.SetProperty(ical.ComponentPropertyTrigger, fmt.Sprintf("-P%dD", e.AlarmDaysBefore))
			alarm.SetProperty(ical.ComponentPropertyDescription, e.Title)
		}
	}
	return cal.Serialize()
}

// ExportCalendar renders holidays and suspension periods, the inverse of
// Parse, so that a court calendar can be reviewed or shared.
func ExportCalendar(name string, entries []calendar.Entry, periods []calendar.SuspensionPeriod, now time.Time) string {
	cal := newCalendar(name)
	for _, e := range entries {
		ev := cal.AddEvent(uuid.NewSHA1(eventNamespace, []byte(e.ScopeKey()+"|"+e.Date.String())).String() + "@prazocerto")
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(e.Date.Time())
		ev.SetAllDayEndAt(e.Date.AddDays(1).Time())
		ev.SetSummary(e.Name)
		cats := []string{string(e.Scope)}
		if e.ExtendsDeadlines && !e.SuspendsExpedient {
			cats = append(cats, CategoryExtendsDeadlines)
		}
		ev.SetProperty(ical.ComponentPropertyCategories, strings.Join(cats, ","))
		if e.LegalBasis != "" {
			ev.SetDescription(e.LegalBasis)
		}
	}
	for _, p := range periods {
		key := fmt.Sprintf("%s|%s|%s|%s|%s", p.Kind, p.UF, p.CourtCode, p.Start, p.End)
		ev := cal.AddEvent(uuid.NewSHA1(eventNamespace, []byte(key)).String() + "@prazocerto")
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(p.Start.Time())
		ev.SetAllDayEndAt(p.End.AddDays(1).Time())
		ev.SetSummary(periodSummary(p.Kind))
		ev.SetProperty(ical.ComponentPropertyCategories, string(p.Kind))
		if p.LegalBasis != "" {
			ev.SetDescription(p.LegalBasis)
		}
	}
	return cal.Serialize()
}

// ExportSnapshot renders the part of snap that falls inside [from, to].
func ExportSnapshot(snap *calendar.Snapshot, from, to common.Date, now time.Time) string {
	var entries []calendar.Entry
	for _, e := range snap.Holidays() {
		if e.Date.Between(from, to) {
			entries = append(entries, e)
		}
	}
	var periods []calendar.SuspensionPeriod
	for _, p := range snap.Suspensions() {
		if !p.End.Before(from) && !p.Start.After(to) {
			periods = append(periods, p)
		}
	}
	return ExportCalendar("Calendário forense "+snap.Court().Code, entries, periods, now)
}

func newCalendar(name string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(name)
	cal.SetXWRTimezone("America/Sao_Paulo")
	return cal
}

var periodSummaries = map[calendar.SuspensionKind]string{
	calendar.KindRecessoFimDeAno:          "Recesso forense",
	calendar.KindRecessoJulho:             "Recesso de julho",
	calendar.KindSuspensaoArt220:          "Suspensão de prazos (CPC art. 220)",
	calendar.KindIndisponibilidadeSistema: "Indisponibilidade do sistema",
	calendar.KindLutoOficial:              "Luto oficial",
	calendar.KindForcaMaior:               "Suspensão por força maior",
	calendar.KindEleicoes:                 "Eleições",
	calendar.KindOperacaoEspecial:         "Suspensão de expediente",
}

func periodSummary(k calendar.SuspensionKind) string {
	if s, ok := periodSummaries[k]; ok {
		return s
	}
	return string(k)
}

//Personal.AI order the ending
