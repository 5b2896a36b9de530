package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Import, export and list court calendars",
	}
	cmd.AddCommand(newImportICSCmd(), newExportICSCmd(), newHolidaysCmd())
	return cmd
}

type importOptions struct {
	uf, court, scope string
	from, to         string
	legalBasis       string
}

func newImportICSCmd() *cobra.Command {
	o := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import-ics FILE",
		Short: "Import holidays and suspensions from an iCalendar file",
		Long: `Import a court or state calendar published as iCalendar (.ics).

Every event is scoped by --court and --uf. Events whose CATEGORIES name a
suspension kind (RECESSO_FIM_DE_ANO, INDISPONIBILIDADE_SISTEMA, ...) become
suspension periods; the rest become calendar entries. With --server the file
is sent to the admin endpoint.`,
		Example: `  prazo calendar import-ics tjsp-2025.ics --court TJSP --uf SP --legal-basis "Prov. CSM 2.789/2024"
  prazo calendar import-ics feriados-rj.ics --uf RJ --from 2025-01-01 --to 2025-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			opts := ics.ImportOptions{
				Scope:      calendar.Scope(strings.ToUpper(o.scope)),
				UF:         o.uf,
				CourtCode:  calendar.NormalizeCode(o.court),
				LegalBasis: o.legalBasis,
			}
			if opts.From, err = optionalDate("--from", o.from); err != nil {
				return err
			}
			if opts.To, err = optionalDate("--to", o.to); err != nil {
				return err
			}

			ctx, cancel, cliCtx, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			sum, err := b.ImportICS(ctx, doc, opts)
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("calendar imported",
				logging.String("file", args[0]),
				logging.Int("added", sum.Added),
				logging.Int("skipped", sum.Skipped))
			if cliCtx.opts.ServerAddr == "" && cliCtx.Config.Calendar.Store != "postgres" {
				cliCtx.Logger.Warn("calendar store is in memory; imported entries are discarded on exit")
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, sum)
			}
			PrintSuccess(cmd, fmt.Sprintf("%d eventos lidos, %d registros novos, %d ignorados", sum.Parsed, sum.Added, sum.Skipped))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.uf, "uf", "", "state the events apply to")
	f.StringVar(&o.court, "court", "", "court the events apply to")
	f.StringVar(&o.scope, "scope", "", "scope of uncategorized events (NACIONAL, ESTADUAL, MUNICIPAL, FORENSE, PONTO_FACULTATIVO)")
	f.StringVar(&o.from, "from", "", "first date to import recurring events for (default: Jan 1 of this year)")
	f.StringVar(&o.to, "to", "", "last date to import recurring events for (default: Dec 31 of next year)")
	f.StringVar(&o.legalBasis, "legal-basis", "", "legal basis recorded on every entry")
	return cmd
}

func newExportICSCmd() *cobra.Command {
	var court, from, to, out string
	cmd := &cobra.Command{
		Use:     "export-ics",
		Short:   "Export a court calendar as iCalendar",
		Example: "  prazo calendar export-ics --court TJSP --from 2025-01-01 --to 2025-12-31 --out tjsp.ics",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := dateWindow(from, to)
			if err != nil {
				return err
			}

			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			doc, err := b.ExportCalendar(ctx, court, start, end)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			PrintSuccess(cmd, "calendário gravado em "+out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&court, "court", "", "court code (default from config)")
	f.StringVar(&from, "from", "", "first date (default: Jan 1 of this year)")
	f.StringVar(&to, "to", "", "last date (default: Dec 31 of this year)")
	f.StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func newHolidaysCmd() *cobra.Command {
	var court string
	var year int
	cmd := &cobra.Command{
		Use:     "holidays",
		Short:   "List the days a court is closed in a year",
		Example: "  prazo calendar holidays --court TJRJ --year 2025 -o table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := b.ClassifyRange(ctx, court,
				common.NewDate(year, time.January, 1), common.NewDate(year, time.December, 31))
			if err != nil {
				return err
			}
			resp.Days = closedDays(resp.Days)
			return PrintResult(cmd, &rangeView{RangeResponse: resp, closedOnly: true})
		},
	}
	cmd.Flags().StringVar(&court, "court", "", "court code (default from config)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current year)")
	return cmd
}

func optionalDate(flag, v string) (common.Date, error) {
	if v == "" {
		return common.Date{}, nil
	}
	d, err := common.ParseDate(v)
	if err != nil {
		return common.Date{}, fmt.Errorf("%s: %w", flag, err)
	}
	return d, nil
}

// dateWindow parses from/to, defaulting to the current calendar year.
func dateWindow(from, to string) (common.Date, common.Date, error) {
	y := time.Now().Year()
	start, end := common.NewDate(y, time.January, 1), common.NewDate(y, time.December, 31)
	if from != "" {
		d, err := common.ParseDate(from)
		if err != nil {
			return start, end, fmt.Errorf("--from: %w", err)
		}
		start = d
	}
	if to != "" {
		d, err := common.ParseDate(to)
		if err != nil {
			return start, end, fmt.Errorf("--to: %w", err)
		}
		end = d
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("--to %s is before --from %s", end, start)
	}
	return start, end, nil
}

//Personal.AI order the ending
