package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gmpPayload = `{"summary":{"total_issues":1,"critical":1,"warning":0,"informational":0},"findings":[{"category":"Payment Terms","severity":"critical","issue":"No GMP","details":"...","location":"Article 4","recommendation":"Add GMP clause"}]}`

func sampleFindings() []Finding {
	return []Finding{
		{Category: "Payment Terms", Severity: SeverityCritical, Issue: "No GMP"},
		{Category: "Timeline", Severity: SeverityWarning, Issue: "TBD completion date"},
		{Category: "Insurance", Severity: SeverityInformational, Issue: "Standard CGL limits"},
		{Category: "Scope", Severity: SeverityWarning, Issue: "Vague exclusions"},
		{Category: "Bonds", Severity: SeverityCritical, Issue: "No payment bond"},
	}
}

func TestDecodeScenario(t *testing.T) {
	res, err := Decode([]byte(gmpPayload))
	require.NoError(t, err)

	assert.Equal(t, Summary{TotalIssues: 1, Critical: 1}, res.Summary)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, Finding{
		Category:       "Payment Terms",
		Severity:       SeverityCritical,
		Issue:          "No GMP",
		Details:        "...",
		Location:       "Article 4",
		Recommendation: "Add GMP clause",
	}, res.Findings[0])
	assert.True(t, res.Consistent())
	assert.Equal(t, RiskHigh, RiskLevelFor(res.Summary))
}

func TestDecodeNormalizesSeverityCase(t *testing.T) {
	raw := `{"summary":{"total_issues":1,"critical":0,"warning":1,"informational":0},"findings":[{"category":"c","severity":" Warning ","issue":"i","details":"d","location":"l","recommendation":"r"}]}`
	res, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, res.Findings[0].Severity)
}

func TestDecodeSchemaDrift(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"no summary", `{"findings":[]}`, "summary"},
		{"missing critical", `{"summary":{"total_issues":0,"warning":0,"informational":0},"findings":[]}`, "summary.critical"},
		{"negative count", `{"summary":{"total_issues":0,"critical":-1,"warning":0,"informational":0},"findings":[]}`, "summary.critical"},
		{"no findings", `{"summary":{"total_issues":0,"critical":0,"warning":0,"informational":0}}`, "findings"},
		{"null findings", `{"summary":{"total_issues":0,"critical":0,"warning":0,"informational":0},"findings":null}`, "findings"},
		{"missing location", `{"summary":{"total_issues":1,"critical":1,"warning":0,"informational":0},"findings":[{"category":"c","severity":"critical","issue":"i","details":"d","recommendation":"r"}]}`, "findings[0].location"},
		{"unknown severity", `{"summary":{"total_issues":1,"critical":1,"warning":0,"informational":0},"findings":[{"category":"c","severity":"high","issue":"i","details":"d","location":"l","recommendation":"r"}]}`, "findings[0].severity"},
		{"wrong counter type", `{"summary":{"total_issues":"one","critical":0,"warning":0,"informational":0},"findings":[]}`, "summary.total_issues"},
		{"top level array", `[1,2]`, "result"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, res)

			var drift *SchemaDriftError
			require.True(t, errors.As(err, &drift), "got %T: %v", err, err)
			assert.Equal(t, tt.field, drift.Field)
		})
	}
}

func TestDecodeSyntaxErrorIsExtractionError(t *testing.T) {
	_, err := Decode([]byte(`{"summary":`))
	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		critical, warning int
		want              RiskLevel
	}{
		{0, 0, RiskLow},
		{0, 3, RiskLow},
		{0, 4, RiskModerate},
		{1, 0, RiskHigh},
		{2, 10, RiskHigh},
	}
	for _, tt := range tests {
		got := RiskLevelFor(Summary{Critical: tt.critical, Warning: tt.warning})
		assert.Equal(t, tt.want, got, "critical=%d warning=%d", tt.critical, tt.warning)
	}
}

func TestBannerMessages(t *testing.T) {
	level, msg := Banner(Summary{Critical: 2, Warning: 9})
	assert.Equal(t, RiskHigh, level)
	assert.Equal(t, "HIGH RISK: 2 critical issues must be resolved before contract execution", msg)

	level, msg = Banner(Summary{Warning: 5})
	assert.Equal(t, RiskModerate, level)
	assert.Contains(t, msg, "5 warnings")

	level, msg = Banner(Summary{})
	assert.Equal(t, RiskLow, level)
	assert.Contains(t, msg, "LOW RISK")
}

func TestFilterKeepsOrderAndDoesNotMutate(t *testing.T) {
	findings := sampleFindings()
	before := append([]Finding(nil), findings...)

	got := Filter(findings, []Severity{SeverityWarning, SeverityCritical})
	require.Len(t, got, 4)
	assert.Equal(t, []string{"No GMP", "TBD completion date", "Vague exclusions", "No payment bond"},
		[]string{got[0].Issue, got[1].Issue, got[2].Issue, got[3].Issue})
	for _, f := range got {
		assert.NotEqual(t, SeverityInformational, f.Severity)
	}

	got[0].Issue = "changed"
	assert.Equal(t, before, findings)
}

func TestFilterDefaultIsAllTiers(t *testing.T) {
	findings := sampleFindings()
	assert.Equal(t, findings, Filter(findings, nil))
	assert.Empty(t, Filter(nil, []Severity{SeverityCritical}))
}

func TestFilterEmptySelectionKeepsNothing(t *testing.T) {
	got := Filter(sampleFindings(), []Severity{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectSeverities(t *testing.T) {
	assert.Nil(t, SelectSeverities(nil, false))
	assert.Equal(t, []Severity{}, SelectSeverities(nil, true))
	assert.Equal(t, []Severity{}, SelectSeverities([]string{"bogus"}, true))
	assert.Equal(t, []Severity{SeverityCritical}, SelectSeverities([]string{"critical"}, true))
	assert.Equal(t, []Severity{SeverityWarning}, SelectSeverities([]string{"warning"}, false))
}

func TestParseSeverities(t *testing.T) {
	got := ParseSeverities([]string{"warning", "bogus", "critical", "warning"})
	assert.Equal(t, []Severity{SeverityWarning, SeverityCritical}, got)
	assert.Nil(t, ParseSeverities(nil))
}

func TestConsistentDetectsDisagreement(t *testing.T) {
	res := &AnalysisResult{
		Summary:  Summary{TotalIssues: 3, Critical: 3},
		Findings: sampleFindings()[:1],
	}
	assert.False(t, res.Consistent())
	assert.Equal(t, Summary{TotalIssues: 1, Critical: 1}, res.Summary.Reconcile(res.Findings))
	assert.Equal(t, 3, res.Count(SeverityCritical))
}
