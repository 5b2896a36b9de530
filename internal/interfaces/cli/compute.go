package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

type computeOptions struct {
	catalogCode string
	trigger     string
	kind        string
	duration    int
	mode        string
	class       string
	rules       []string
	court       string
	electronic  bool
	title       string
}

func newComputeCmd() *cobra.Command {
	o := &computeOptions{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the due date of a deadline",
		Long: `Compute the due date of a procedural deadline for a court.

Either reference a catalog entry with --catalog or give --duration and --mode.
The audit trail lists every day considered; use -o table to see it.`,
		Example: `  prazo compute --catalog CPC_335 --trigger 2025-03-10 --court TJSP
  prazo compute --duration 5 --mode UTEIS --trigger 2025-03-10 --court TRF3 --rule DOBRA_ENTE_PUBLICO
  prazo compute --catalog CPC_1003 --trigger 2025-03-10 -o ics > prazo.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.catalogCode, "catalog", "", "catalog entry code, e.g. CPC_335")
	f.StringVar(&o.trigger, "trigger", "", "trigger date (YYYY-MM-DD)")
	f.StringVar(&o.kind, "kind", "", "trigger kind: INTIMACAO_ADVOGADO, INTIMACAO_PESSOAL, PUBLICACAO_DIARIO, DISPONIBILIZACAO_ELETRONICA, DECISAO")
	f.IntVar(&o.duration, "duration", 0, "duration in days when no catalog entry is given")
	f.StringVar(&o.mode, "mode", "", "counting mode: DIAS_UTEIS or DIAS_CORRIDOS (UTEIS/CORRIDOS accepted)")
	f.StringVar(&o.class, "class", "", "deadline class: PEREMPTORIO, DILATORIO or IMPROPRIO")
	f.StringSliceVar(&o.rules, "rule", nil, "special rule to apply (repeatable), e.g. DOBRA_ENTE_PUBLICO")
	f.StringVar(&o.court, "court", "", "court code (default from config)")
	f.BoolVar(&o.electronic, "electronic", false, "the proceeding is electronic")
	f.StringVar(&o.title, "title", "", "event title for -o ics")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func runCompute(cmd *cobra.Command, o *computeOptions) error {
	trigger, err := common.ParseDate(o.trigger)
	if err != nil {
		return fmt.Errorf("--trigger: %w", err)
	}
	if o.catalogCode == "" && o.duration <= 0 {
		return fmt.Errorf("either --catalog or a positive --duration must be provided")
	}

	ctx, cancel, cliCtx, b, err := backendFor(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	req := &deadline.ComputeRequest{
		CatalogCode:          o.catalogCode,
		TriggerDate:          trigger,
		TriggerKind:          strings.ToUpper(o.kind),
		Duration:             o.duration,
		Mode:                 strings.ToUpper(o.mode),
		Class:                strings.ToUpper(o.class),
		Rules:                o.rules,
		Court:                o.court,
		ElectronicProceeding: o.electronic,
	}
	cliCtx.Logger.Debug("computing deadline",
		logging.String("catalog", req.CatalogCode),
		logging.String("trigger", trigger.String()),
		logging.String("court", req.Court))

	resp, err := b.ComputeDeadline(ctx, req)
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "ics" {
		title := o.title
		if title == "" && resp.Result.CatalogCode != "" {
			title = "Prazo " + resp.Result.CatalogCode
		}
		ev := ics.FromResult(resp.RequestHash, title, resp.Result)
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics.ExportDeadlines([]ics.DeadlineEvent{ev}, time.Now()))
		return err
	}
	return PrintResult(cmd, (*computeView)(resp))
}

// computeView renders a computed deadline.
type computeView deadline.ComputeResponse

func (v *computeView) String() string {
	r := v.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Prazo final:        %s (%s)\n", r.DueDate, computation.WeekdayName(r.DueDate))
	fmt.Fprintf(&b, "Tribunal:           %s\n", courtLabel(r.Court.Code, r.Court.UF))
	fmt.Fprintf(&b, "Intimação:          %s\n", r.TriggerDate)
	fmt.Fprintf(&b, "Início da contagem: %s\n", r.CountStart)
	fmt.Fprintf(&b, "Prazo:              %d dias (base %d)\n", r.EffectiveDuration, r.BaseDuration)
	if r.CatalogCode != "" {
		fmt.Fprintf(&b, "Catálogo:           %s\n", r.CatalogCode)
	}
	if len(r.AppliedRules) > 0 {
		fmt.Fprintf(&b, "Regras aplicadas:   %s\n", strings.Join(r.AppliedRules, ", "))
	}
	for _, ig := range r.IgnoredRules {
		fmt.Fprintf(&b, "Regra ignorada:     %s (%s)\n", ig.Rule, ig.Reason)
	}
	if r.Rolled() {
		fmt.Fprintf(&b, "Prorrogado de:      %s\n", r.ProvisionalDueDate)
	}
	fmt.Fprintf(&b, "Dias não contados:  %d\n", r.SkippedDayCount)
	fmt.Fprintf(&b, "Versão calendário:  %s\n", r.CalendarVersion)
	if r.LowConfidence {
		b.WriteString("ATENÇÃO: calendário do tribunal sem dados locais — conferir manualmente.\n")
	}
	for _, w := range mergeWarnings(v.Warnings, r.Warnings) {
		fmt.Fprintf(&b, "Aviso: %s\n", w)
	}
	return b.String()
}

func (v *computeView) TableHeaders() []string {
	return []string{"#", "Data", "Dia", "Classificação", "Fase", "Conta", "Nota"}
}

func (v *computeView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Result.AuditTrail))
	for _, a := range v.Result.AuditTrail {
		idx := ""
		if a.DayIndex > 0 {
			idx = strconv.Itoa(a.DayIndex)
		}
		counted := "não"
		if a.Counted {
			counted = "sim"
		}
		rows = append(rows, []string{
			idx,
			a.Date.String(),
			a.Weekday,
			colorClassification(a.Classification),
			string(a.Phase),
			counted,
			a.Note,
		})
	}
	return rows
}

func courtLabel(code, uf string) string {
	if uf == "" {
		return code
	}
	return code + " (" + uf + ")"
}

// mergeWarnings joins service and engine warnings without repeats.
func mergeWarnings(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, w := range l {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}

//Personal.AI order the ending
