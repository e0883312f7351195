// Package render prints an analysis result for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

var (
	critical      = lipgloss.Color("#dc3545")
	warning       = lipgloss.Color("#fd7e14")
	informational = lipgloss.Color("#0d6efd")
	muted         = lipgloss.Color("#6c757d")
)

// Report is what gets printed.
type Report struct {
	Result     *contract.AnalysisResult
	FileName   string
	AnalyzedAt time.Time
	Selected   []contract.Severity // nil means all tiers
}

// Write renders rep to w. Colors are only emitted when w is a terminal.
func Write(w io.Writer, rep Report) error {
	r := lipgloss.NewRenderer(w)
	res := rep.Result

	title := r.NewStyle().Bold(true)
	faint := r.NewStyle().Foreground(muted)

	name := rep.FileName
	if name == "" {
		name = "Manual Input"
	}

	var b strings.Builder
	b.WriteString(title.Render("CONSTRUCTION CONTRACT ANALYSIS") + "\n")
	fmt.Fprintf(&b, "File: %s\n", name)
	if !rep.AnalyzedAt.IsZero() {
		fmt.Fprintf(&b, "Analyzed: %s\n", rep.AnalyzedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TOTAL ISSUES\tCRITICAL\tWARNINGS\tINFORMATIONAL")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", res.Summary.TotalIssues, res.Summary.Critical, res.Summary.Warning, res.Summary.Informational)
	if err := tw.Flush(); err != nil {
		return err
	}

	if !res.Consistent() {
		actual := res.Summary.Reconcile(res.Findings)
		b.WriteString(faint.Render(fmt.Sprintf(
			"note: reported counts differ from the %d findings listed (%d critical, %d warning, %d informational)",
			actual.TotalIssues, actual.Critical, actual.Warning, actual.Informational)) + "\n")
	}

	level, banner := contract.Banner(res.Summary)
	b.WriteString("\n" + r.NewStyle().Foreground(levelColor(level)).Bold(true).Render(banner) + "\n\n")

	shown := contract.Filter(res.Findings, rep.Selected)
	fmt.Fprintf(&b, "FINDINGS (%d of %d)\n", len(shown), len(res.Findings))
	for _, f := range shown {
		tag := r.NewStyle().Foreground(severityColor(f.Severity)).Bold(true).Render("[" + strings.ToUpper(string(f.Severity)) + "]")
		fmt.Fprintf(&b, "\n%s %s\n", tag, f.Issue)

		tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)
		fmt.Fprintf(tw, "  Category:\t%s\n", f.Category)
		fmt.Fprintf(tw, "  Location:\t%s\n", f.Location)
		fmt.Fprintf(tw, "  Details:\t%s\n", f.Details)
		fmt.Fprintf(tw, "  Recommendation:\t%s\n", f.Recommendation)
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(shown) == 0 {
		b.WriteString("\nNo findings match the selected severities.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func severityColor(s contract.Severity) lipgloss.Color {
	switch s {
	case contract.SeverityCritical:
		return critical
	case contract.SeverityWarning:
		return warning
	}
	return informational
}

func levelColor(l contract.RiskLevel) lipgloss.Color {
	switch l {
	case contract.RiskHigh:
		return critical
	case contract.RiskModerate:
		return warning
	}
	return lipgloss.Color("#198754")
}
