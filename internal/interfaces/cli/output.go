package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/conflict"
)

// tableProvider is implemented by views that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext. The ics
// format is handled by the commands that support it; elsewhere it falls back
// to text.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := "json"
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	switch format {
	case "json":
		return printJSON(cmd.OutOrStdout(), data)
	case "table":
		return printTable(cmd.OutOrStdout(), data)
	default:
		return printText(cmd.OutOrStdout(), data)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprint(w, v.String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

func printTable(w io.Writer, data interface{}) error {
	tp, ok := data.(tableProvider)
	if !ok {
		return printText(w, data)
	}
	return renderTable(w, tp.TableHeaders(), tp.TableRows())
}

// renderTable draws headers and rows with tablewriter.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Erro:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Colors
// ─────────────────────────────────────────────────────────────────────────────

func colorSeverity(s conflict.Severity) string {
	switch s {
	case conflict.SeverityCritica:
		return color.New(color.FgRed, color.Bold).Sprint(string(s))
	case conflict.SeverityAlta:
		return color.RedString(string(s))
	case conflict.SeverityMedia:
		return color.YellowString(string(s))
	default:
		return color.GreenString(string(s))
	}
}

func colorClassification(c calendar.Classification) string {
	switch c {
	case calendar.DayUtil:
		return color.GreenString(string(c))
	case calendar.DayFimDeSemana:
		return string(c)
	case calendar.DayFeriado:
		return color.RedString(string(c))
	default:
		return color.YellowString(string(c))
	}
}

//Personal.AI order the ending
