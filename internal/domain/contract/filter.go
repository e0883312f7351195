package contract

// Filter returns the findings whose severity is selected, in their original order.
// A nil selection means every tier; an empty non-nil one keeps nothing.
// The input slice is never modified.
func Filter(findings []Finding, selected []Severity) []Finding {
	if selected == nil {
		selected = Severities()
	}
	keep := make(map[Severity]bool, len(selected))
	for _, s := range selected {
		keep[s] = true
	}

	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if keep[f.Severity] {
			out = append(out, f)
		}
	}
	return out
}

// SelectSeverities reads a submitted filter form. Without the form marker the
// selection is nil (the default); with it, an empty selection stays empty.
func SelectSeverities(values []string, submitted bool) []Severity {
	out := ParseSeverities(values)
	if out == nil && submitted {
		return []Severity{}
	}
	return out
}

// ParseSeverities turns raw filter values into known tiers, dropping unknown ones
// and duplicates.
func ParseSeverities(values []string) []Severity {
	seen := make(map[Severity]bool, len(values))
	var out []Severity
	for _, v := range values {
		s := Severity(v)
		if !s.Valid() || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
