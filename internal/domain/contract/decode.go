package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// wire types use pointers so a missing key can be told apart from a zero value
type wireSummary struct {
	TotalIssues   *int `json:"total_issues"`
	Critical      *int `json:"critical"`
	Warning       *int `json:"warning"`
	Informational *int `json:"informational"`
}

type wireFinding struct {
	Category       *string `json:"category"`
	Severity       *string `json:"severity"`
	Issue          *string `json:"issue"`
	Details        *string `json:"details"`
	Location       *string `json:"location"`
	Recommendation *string `json:"recommendation"`
}

type wireResult struct {
	Summary  *wireSummary   `json:"summary"`
	Findings *[]wireFinding `json:"findings"`
}

// Decode validates the extracted JSON and builds an AnalysisResult.
// Summary counts are kept exactly as reported; see AnalysisResult.Consistent.
func Decode(raw []byte) (*AnalysisResult, error) {
	var w wireResult
	if err := json.Unmarshal(raw, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "result"
			}
			return nil, &SchemaDriftError{Field: field, Reason: "has type " + typeErr.Value + ", want " + typeErr.Type.String()}
		}
		return nil, &ExtractionError{Err: err}
	}

	if w.Summary == nil {
		return nil, &SchemaDriftError{Field: "summary", Reason: "is missing"}
	}
	counters := []struct {
		name string
		v    *int
	}{
		{"total_issues", w.Summary.TotalIssues},
		{"critical", w.Summary.Critical},
		{"warning", w.Summary.Warning},
		{"informational", w.Summary.Informational},
	}
	for _, c := range counters {
		if c.v == nil {
			return nil, &SchemaDriftError{Field: "summary." + c.name, Reason: "is missing"}
		}
		if *c.v < 0 {
			return nil, &SchemaDriftError{Field: "summary." + c.name, Reason: "is negative"}
		}
	}
	if w.Findings == nil {
		return nil, &SchemaDriftError{Field: "findings", Reason: "is missing"}
	}

	out := &AnalysisResult{
		Summary: Summary{
			TotalIssues:   *w.Summary.TotalIssues,
			Critical:      *w.Summary.Critical,
			Warning:       *w.Summary.Warning,
			Informational: *w.Summary.Informational,
		},
		Findings: make([]Finding, 0, len(*w.Findings)),
	}
	for i, wf := range *w.Findings {
		f, err := decodeFinding(i, wf)
		if err != nil {
			return nil, err
		}
		out.Findings = append(out.Findings, f)
	}
	return out, nil
}

func decodeFinding(i int, wf wireFinding) (Finding, error) {
	fields := []struct {
		name string
		v    *string
	}{
		{"category", wf.Category},
		{"severity", wf.Severity},
		{"issue", wf.Issue},
		{"details", wf.Details},
		{"location", wf.Location},
		{"recommendation", wf.Recommendation},
	}
	for _, fd := range fields {
		if fd.v == nil {
			return Finding{}, &SchemaDriftError{Field: fmt.Sprintf("findings[%d].%s", i, fd.name), Reason: "is missing"}
		}
	}

	sev := Severity(strings.ToLower(strings.TrimSpace(*wf.Severity)))
	if !sev.Valid() {
		return Finding{}, &SchemaDriftError{
			Field:  fmt.Sprintf("findings[%d].severity", i),
			Reason: fmt.Sprintf("has unknown value %q", *wf.Severity),
		}
	}

	return Finding{
		Category:       *wf.Category,
		Severity:       sev,
		Issue:          *wf.Issue,
		Details:        *wf.Details,
		Location:       *wf.Location,
		Recommendation: *wf.Recommendation,
	}, nil
}
