package render

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

var update = flag.Bool("update", false, "update golden files")

func sample() *contract.AnalysisResult {
	return &contract.AnalysisResult{
		// reported total disagrees with the two findings on purpose
		Summary: contract.Summary{TotalIssues: 3, Critical: 1, Warning: 1, Informational: 1},
		Findings: []contract.Finding{
			{
				Category:       "Payment Terms",
				Severity:       contract.SeverityCritical,
				Issue:          "Pay-when-paid clause",
				Details:        "Payment depends on owner payment.",
				Location:       "Section 7.2",
				Recommendation: "Replace with a fixed payment schedule.",
			},
			{
				Category:       "Insurance",
				Severity:       contract.SeverityWarning,
				Issue:          "Broad additional insured",
				Details:        "Subcontractor must name all parties.",
				Location:       "Exhibit C",
				Recommendation: "Limit to the owner and contractor.",
			},
		},
	}
}

func TestWriteGolden(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Report{
		Result:     sample(),
		FileName:   "subcontract.txt",
		AnalyzedAt: time.Date(2025, 6, 15, 10, 30, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	p := filepath.Join("testdata", "report.golden")
	if *update {
		require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	}
	want, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
}

func TestWriteAppliesFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{
		Result:   sample(),
		Selected: []contract.Severity{contract.SeverityInformational},
	}))
	out := buf.String()
	assert.Contains(t, out, "File: Manual Input")
	assert.Contains(t, out, "FINDINGS (0 of 2)")
	assert.Contains(t, out, "No findings match the selected severities.")
	assert.NotContains(t, out, "Pay-when-paid clause")
}

func TestWriteHasNoEscapesForPlainWriters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{Result: sample()}))
	assert.NotContains(t, buf.String(), "\x1b[")
}
