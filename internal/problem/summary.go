package problem

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

func WriteJSON(r *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write build summary: %w", err)
	}
	return nil
}

// WriteTable prints one row per task followed by the total score.
func WriteTable(r *Result, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TASK", "TYPE", "SCORE", "CASES", "PER CASE", "BUNDLES", "DEPENDS ON"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	for _, t := range r.Tasks {
		perCase := "all"
		if t.Type == ScoringSum {
			perCase = strconv.FormatFloat(t.CaseScore, 'f', 2, 64)
		}
		deps := "-"
		if len(t.Dependencies) > 0 {
			deps = strings.Join(t.Dependencies, ",")
		}
		table.Append([]string{
			t.Name,
			t.Type,
			strconv.FormatFloat(t.Score, 'f', 2, 64),
			strconv.Itoa(t.Cases),
			perCase,
			strings.Join(t.Bundles, ","),
			deps,
		})
	}
	table.Render()

	accepted := 0
	for _, c := range r.Cases {
		if c.Verdict != nil && c.Verdict.Accepted {
			accepted++
		}
	}
	_, err := fmt.Fprintf(w, "\n%s: %d/%d cases accepted by %s, total score %.2f (%s)\n",
		r.Problem, accepted, len(r.Cases), r.Grammar, r.TotalScore, r.Elapsed.Round(time.Microsecond))
	return err
}
