package contract

// Severity tier reported for a finding
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityWarning       Severity = "warning"
	SeverityInformational Severity = "informational"
)

// Severities lists every tier in display order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityWarning, SeverityInformational}
}

// Valid reports whether s is one of the three known tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInformational:
		return true
	}
	return false
}

// Finding is one reported contract issue.
type Finding struct {
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Issue          string   `json:"issue"`
	Details        string   `json:"details"`
	Location       string   `json:"location"`
	Recommendation string   `json:"recommendation"`
}

// Summary holds the counts as the model reported them.
type Summary struct {
	TotalIssues   int `json:"total_issues"`
	Critical      int `json:"critical"`
	Warning       int `json:"warning"`
	Informational int `json:"informational"`
}

// Reconcile recomputes the counts from the finding list.
func (s Summary) Reconcile(findings []Finding) Summary {
	var out Summary
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			out.Critical++
		case SeverityWarning:
			out.Warning++
		case SeverityInformational:
			out.Informational++
		}
	}
	out.TotalIssues = len(findings)
	return out
}

// AnalysisResult is the parsed payload of one analysis.
// A result is never modified after Decode returns it.
type AnalysisResult struct {
	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
}

// Consistent reports whether the self-reported summary agrees with the findings.
func (r *AnalysisResult) Consistent() bool {
	return r.Summary == r.Summary.Reconcile(r.Findings)
}

// Count returns the reported counter for one severity tier.
func (r *AnalysisResult) Count(s Severity) int {
	switch s {
	case SeverityCritical:
		return r.Summary.Critical
	case SeverityWarning:
		return r.Summary.Warning
	case SeverityInformational:
		return r.Summary.Informational
	}
	return 0
}
