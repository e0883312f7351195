package httpserver

import (
	"embed"
	"html/template"
	"strings"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").ParseFS(templateFS, "templates/dashboard.html"))

var severityColors = map[contract.Severity]string{
	contract.SeverityCritical:      "#dc3545",
	contract.SeverityWarning:       "#fd7e14",
	contract.SeverityInformational: "#0d6efd",
}

type dashboardView struct {
	Version     string
	Roles       []string
	Role        string
	HasAPIKey   bool
	Busy        bool
	MaxUploadMB int64
	Flash       *flash
	Result      *resultView
}

type resultView struct {
	FileName   string
	AnalyzedAt string
	Summary    contract.Summary
	Reconciled contract.Summary
	Consistent bool
	Risk       contract.RiskLevel
	Banner     string
	Filters    []severityOption
	Findings   []findingView
	Total      int
}

type severityOption struct {
	Value   contract.Severity
	Label   string
	Checked bool
}

type findingView struct {
	contract.Finding
	Color string
	Label string
}

func buildView(st session.State, selected []contract.Severity, version string, maxUpload int64, f *flash) dashboardView {
	v := dashboardView{
		Version:     version,
		Roles:       session.Roles,
		Role:        st.Role,
		HasAPIKey:   st.HasAPIKey,
		Busy:        st.Busy,
		MaxUploadMB: maxUpload >> 20,
		Flash:       f,
	}
	if st.Result == nil {
		return v
	}

	res := st.Result
	risk, banner := contract.Banner(res.Summary)
	rv := &resultView{
		FileName:   st.FileName,
		Summary:    res.Summary,
		Reconciled: res.Summary.Reconcile(res.Findings),
		Consistent: res.Consistent(),
		Risk:       risk,
		Banner:     banner,
		Total:      len(res.Findings),
	}
	if rv.FileName == "" {
		rv.FileName = "Manual Input"
	}
	if !st.AnalyzedAt.IsZero() {
		rv.AnalyzedAt = st.AnalyzedAt.Format("2006-01-02 15:04:05")
	}

	active := selected
	if active == nil {
		active = contract.Severities()
	}
	for _, s := range contract.Severities() {
		rv.Filters = append(rv.Filters, severityOption{
			Value:   s,
			Label:   strings.ToUpper(string(s[:1])) + string(s[1:]),
			Checked: containsSeverity(active, s),
		})
	}
	for _, fd := range contract.Filter(res.Findings, selected) {
		rv.Findings = append(rv.Findings, findingView{
			Finding: fd,
			Color:   severityColors[fd.Severity],
			Label:   strings.ToUpper(string(fd.Severity)),
		})
	}
	v.Result = rv
	return v
}

func containsSeverity(list []contract.Severity, s contract.Severity) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
