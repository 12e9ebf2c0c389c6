package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/olekukonko/tablewriter"
)

const maxReasonWidth = 60

func WriteTable(r *Report, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"SOURCE", "VERDICT", "BYTES", "OFFSET", "RULE", "REASON"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	for _, v := range r.Verdicts {
		table.Append(row(v))
	}
	table.Render()

	_, err := fmt.Fprintf(w, "\n%s: %d/%d accepted, %d rejected, %.1f%% (%s)\n",
		r.Grammar, r.Accepted, r.Total, r.Rejected, r.AcceptedPct, r.Elapsed.Round(time.Microsecond))
	return err
}

func row(v *verdict.Verdict) []string {
	source := v.Source
	if source == "" {
		source = "<stdin>"
	}
	status := strings.ToUpper(v.Status())
	size := strconv.Itoa(v.Size)
	if v.Accepted {
		return []string{source, status, size, "-", "-", "-"}
	}
	return []string{source, status, size, strconv.Itoa(v.Offset), v.Rule, truncate(v.Reason, maxReasonWidth)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
