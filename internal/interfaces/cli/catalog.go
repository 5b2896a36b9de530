package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the deadline catalog",
	}
	cmd.AddCommand(newCatalogGetCmd(), newCatalogSearchCmd())
	return cmd
}

func newCatalogGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get CODE",
		Short:   "Show one catalog entry",
		Example: "  prazo catalog get CPC_335",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			e, err := b.GetCatalogEntry(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*entryView)(e))
		},
	}
}

type catalogSearchOptions struct {
	text     string
	statute  string
	category string
	class    string
	mode     string
	limit    int
}

func newCatalogSearchCmd() *cobra.Command {
	o := &catalogSearchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search catalog entries",
		Example: `  prazo catalog search --q contestação
  prazo catalog search --statute CLT --mode CORRIDOS -o table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := catalog.Query{
				Text:     o.text,
				Statute:  strings.ToUpper(o.statute),
				Category: o.category,
				Limit:    o.limit,
			}
			if o.class != "" {
				c, err := catalog.ParseClass(o.class)
				if err != nil {
					return err
				}
				q.Class = c
			}
			if o.mode != "" {
				m, err := catalog.ParseMode(o.mode)
				if err != nil {
					return err
				}
				q.Mode = m
			}

			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			entries, err := b.SearchCatalog(ctx, q)
			if err != nil {
				return err
			}
			return PrintResult(cmd, entryList(entries))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.text, "q", "q", "", "free text, accent and case insensitive")
	f.StringVar(&o.statute, "statute", "", "statute, e.g. CPC, CLT, CPP")
	f.StringVar(&o.category, "category", "", "category")
	f.StringVar(&o.class, "class", "", "deadline class")
	f.StringVar(&o.mode, "mode", "", "counting mode (UTEIS, CORRIDOS)")
	f.IntVar(&o.limit, "limit", 20, "maximum number of entries")
	return cmd
}

// entryView renders one catalog entry.
type entryView catalog.Entry

func (v *entryView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s art. %s\n", v.Code, v.Statute, v.Article)
	fmt.Fprintf(&b, "%s\n", v.Title)
	fmt.Fprintf(&b, "Prazo: %d %s, %s\n", v.Duration, modeLabel(v.Mode), v.Class)
	if v.Category != "" {
		fmt.Fprintf(&b, "Categoria: %s\n", v.Category)
	}
	if v.Trigger != "" {
		fmt.Fprintf(&b, "Termo inicial: %s\n", v.Trigger)
	}
	var doubling []string
	if v.PublicEntityDoubling {
		doubling = append(doubling, "ente público")
	}
	if v.MultiLitigantDoubling {
		doubling = append(doubling, "litisconsortes")
	}
	if len(doubling) > 0 {
		fmt.Fprintf(&b, "Prazo em dobro: %s\n", strings.Join(doubling, ", "))
	}
	if v.SuspendsOnRecess {
		b.WriteString("Suspende no recesso forense\n")
	}
	return b.String()
}

func (v *entryView) TableHeaders() []string { return entryHeaders }

func (v *entryView) TableRows() [][]string { return [][]string{entryRow(catalog.Entry(*v))} }

// entryList renders search results.
type entryList []catalog.Entry

func (l entryList) String() string {
	if len(l) == 0 {
		return "Nenhuma entrada encontrada.\n"
	}
	var b strings.Builder
	for _, e := range l {
		fmt.Fprintf(&b, "%-12s %3d %-8s %s\n", e.Code, e.Duration, modeLabel(e.Mode), e.Title)
	}
	return b.String()
}

func (l entryList) TableHeaders() []string { return entryHeaders }

func (l entryList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, entryRow(e))
	}
	return rows
}

var entryHeaders = []string{"Código", "Lei", "Artigo", "Dias", "Contagem", "Natureza", "Título"}

func entryRow(e catalog.Entry) []string {
	return []string{e.Code, e.Statute, e.Article, strconv.Itoa(e.Duration), modeLabel(e.Mode), string(e.Class), e.Title}
}

func modeLabel(m catalog.Mode) string {
	if m == catalog.ModeCalendarDays {
		return "corridos"
	}
	return "úteis"
}

//Personal.AI order the ending
