package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/conflict"
)

func newConflictsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Detect conflicts in a portfolio of deadlines",
		Long: `Detect conflicts in a portfolio of computed deadlines read from a JSON file.

The file holds either {"deadlines": [...]} or a bare array of deadlines, each
with id, party, due_date, class and optionally court, hearing and depends_on.`,
		Example: `  prazo conflicts --file carteira.json
  cat carteira.json | prazo conflicts --file - -o table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			deadlines, err := decodeDeadlines(data)
			if err != nil {
				return err
			}

			ctx, cancel, _, b, err := backendFor(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := b.DetectConflicts(ctx, &deadline.ConflictRequest{Deadlines: deadlines})
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*conflictView)(resp))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the deadlines, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decodeDeadlines(data []byte) ([]conflict.Deadline, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []conflict.Deadline
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode deadlines: %w", err)
		}
		return list, nil
	}
	var req deadline.ConflictRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode deadlines: %w", err)
	}
	return req.Deadlines, nil
}

// conflictView renders the findings, most severe first.
type conflictView deadline.ConflictResponse

func (v *conflictView) String() string {
	var b strings.Builder
	if len(v.Findings) == 0 {
		fmt.Fprintf(&b, "Nenhum conflito em %d prazos.\n", v.Analysed)
		return b.String()
	}
	fmt.Fprintf(&b, "%d conflitos em %d prazos", len(v.Findings), v.Analysed)
	sevs := make([]conflict.Severity, 0, len(v.BySeverity))
	for s := range v.BySeverity {
		sevs = append(sevs, s)
	}
	sort.Slice(sevs, func(i, j int) bool { return sevs[i].Rank() > sevs[j].Rank() })
	parts := make([]string, 0, len(sevs))
	for _, s := range sevs {
		parts = append(parts, fmt.Sprintf("%s=%d", colorSeverity(s), v.BySeverity[s]))
	}
	fmt.Fprintf(&b, " (%s)\n", strings.Join(parts, ", "))

	for _, f := range v.Findings {
		when := f.Date.String()
		if f.Week != "" {
			when = f.Week
		}
		fmt.Fprintf(&b, "\n[%s] %s %s\n", colorSeverity(f.Severity), f.Kind, when)
		fmt.Fprintf(&b, "  %s\n", f.Description)
		fmt.Fprintf(&b, "  Prazos: %s\n", strings.Join(f.DeadlineIDs, ", "))
		if f.Suggestion != "" {
			fmt.Fprintf(&b, "  Sugestão: %s\n", f.Suggestion)
		}
	}
	return b.String()
}

func (v *conflictView) TableHeaders() []string {
	return []string{"Severidade", "Tipo", "Parte", "Data", "Prazos", "Descrição"}
}

func (v *conflictView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Findings))
	for _, f := range v.Findings {
		when := f.Date.String()
		if f.Week != "" {
			when = f.Week
		}
		rows = append(rows, []string{
			colorSeverity(f.Severity),
			string(f.Kind),
			f.Party,
			when,
			strings.Join(f.DeadlineIDs, ", "),
			f.Description,
		})
	}
	return rows
}

//Personal.AI order the ending
