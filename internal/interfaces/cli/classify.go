package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func newClassifyCmd() *cobra.Command {
	var court, to string
	cmd := &cobra.Command{
		Use:   "classify DATE",
		Short: "Classify a date (or a range with --to) for a court",
		Example: `  prazo classify 2025-04-21 --court TJSP
  prazo classify 2025-12-15 --to 2026-01-31 --court TRF3 -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := common.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}

			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if to == "" {
				resp, err := b.ClassifyDay(ctx, court, from)
				if err != nil {
					return err
				}
				return PrintResult(cmd, (*dayView)(resp))
			}
			end, err := common.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			resp, err := b.ClassifyRange(ctx, court, from, end)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &rangeView{RangeResponse: resp})
		},
	}
	cmd.Flags().StringVar(&court, "court", "", "court code (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "last date of a range (YYYY-MM-DD)")
	return cmd
}

// dayView renders one classified date.
type dayView deadline.DayResponse

func (v *dayView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) em %s: %s\n",
		v.Day.Date, computation.WeekdayName(v.Day.Date), v.Court.Code, colorClassification(v.Day.Classification))
	if v.Reason != "" {
		fmt.Fprintf(&b, "Motivo: %s\n", v.Reason)
	}
	if v.Day.Entry != nil && v.Day.Entry.LegalBasis != "" {
		fmt.Fprintf(&b, "Base legal: %s\n", v.Day.Entry.LegalBasis)
	}
	if v.LowConfidence {
		b.WriteString("ATENÇÃO: calendário do tribunal sem dados locais — conferir manualmente.\n")
	}
	for _, w := range v.Warnings {
		fmt.Fprintf(&b, "Aviso: %s\n", w)
	}
	return b.String()
}

func (v *dayView) TableHeaders() []string { return dayHeaders }

func (v *dayView) TableRows() [][]string {
	return [][]string{dayRow(v.Day)}
}

// rangeView renders a classified range. The text form skips business days
// and weekends unless closedOnly says the range was already filtered.
type rangeView struct {
	*deadline.RangeResponse
	closedOnly bool
}

func (v *rangeView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s de %s a %s: %d dias úteis\n", courtLabel(v.Court.Code, v.Court.UF), v.From, v.To, v.BusinessDays)
	for _, d := range v.Days {
		if !v.closedOnly && (d.Classification == calendar.DayFimDeSemana ||
			d.Classification == calendar.DayUtil && !d.ExtendsDeadlines) {
			continue
		}
		fmt.Fprintf(&b, "  %s %-13s %-15s %s\n", d.Date, computation.WeekdayName(d.Date), colorClassification(d.Classification), d.Reason())
	}
	if v.LowConfidence {
		b.WriteString("ATENÇÃO: calendário do tribunal sem dados locais — conferir manualmente.\n")
	}
	for _, w := range v.Warnings {
		fmt.Fprintf(&b, "Aviso: %s\n", w)
	}
	return b.String()
}

func (v *rangeView) TableHeaders() []string { return dayHeaders }

func (v *rangeView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Days))
	for _, d := range v.Days {
		rows = append(rows, dayRow(d))
	}
	return rows
}

// closedDays keeps holidays, recess and suspensions, dropping business
// days and weekends.
func closedDays(days []calendar.DayInfo) []calendar.DayInfo {
	out := make([]calendar.DayInfo, 0, len(days))
	for _, d := range days {
		if d.Classification != calendar.DayUtil && d.Classification != calendar.DayFimDeSemana {
			out = append(out, d)
		}
	}
	return out
}

var dayHeaders = []string{"Data", "Dia", "Classificação", "Motivo"}

func dayRow(d calendar.DayInfo) []string {
	return []string{
		d.Date.String(),
		computation.WeekdayName(d.Date),
		colorClassification(d.Classification),
		d.Reason(),
	}
}

//Personal.AI order the ending
