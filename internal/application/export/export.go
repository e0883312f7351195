// Package export serializes an analysis result for download.
// Exports always contain every finding, whatever filter the dashboard shows.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

// Kind selects the export format.
type Kind string

const (
	KindJSON Kind = "json"
	KindText Kind = "txt"
)

const (
	manualInput     = "Manual Input"
	fileStampLayout = "20060102_150405"
	headerLayout    = "2006-01-02 15:04:05"
)

// ParseKind maps a URL segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindJSON:
		return KindJSON, true
	case KindText:
		return KindText, true
	}
	return "", false
}

func (k Kind) ContentType() string {
	if k == KindJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// FileName returns contract_analysis_<YYYYMMDD_HHMMSS>.<ext>.
func FileName(k Kind, t time.Time) string {
	return fmt.Sprintf("contract_analysis_%s.%s", t.Format(fileStampLayout), k)
}

// JSON returns the unfiltered result as 2-space indented JSON.
func JSON(res *contract.AnalysisResult) ([]byte, error) {
	out := *res
	if out.Findings == nil {
		out.Findings = []contract.Finding{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis result: %w", err)
	}
	return data, nil
}

// Text renders the fixed-layout report.
func Text(res *contract.AnalysisResult, fileName string, generated time.Time) []byte {
	if fileName == "" {
		fileName = manualInput
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CONTRACT ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format(headerLayout))
	fmt.Fprintf(&b, "File: %s\n\n", fileName)

	b.WriteString("SUMMARY\n=======\n")
	fmt.Fprintf(&b, "Total Issues: %d\n", res.Summary.TotalIssues)
	fmt.Fprintf(&b, "Critical: %d\n", res.Summary.Critical)
	fmt.Fprintf(&b, "Warnings: %d\n", res.Summary.Warning)
	fmt.Fprintf(&b, "Informational: %d\n\n", res.Summary.Informational)

	b.WriteString("DETAILED FINDINGS\n=================\n\n")
	for i, f := range res.Findings {
		fmt.Fprintf(&b, "\n%d. [%s] %s\n", i+1, strings.ToUpper(string(f.Severity)), f.Issue)
		fmt.Fprintf(&b, "   Category: %s\n", f.Category)
		fmt.Fprintf(&b, "   Details: %s\n", f.Details)
		fmt.Fprintf(&b, "   Location: %s\n", f.Location)
		fmt.Fprintf(&b, "   Recommendation: %s\n\n", f.Recommendation)
	}
	return []byte(b.String())
}

// Document is one rendered export file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
	ArchiveURL  string
}

// Exporter renders downloads and, when an archive is configured, keeps a copy.
type Exporter struct {
	Archive contract.ExportArchive
	Clock   application.Clock
	Log     *zap.Logger
}

// Render builds the export for res. fileName is the uploaded file, if any.
// Archive failures are logged and never fail the download.
func (e *Exporter) Render(ctx context.Context, kind Kind, owner string, res *contract.AnalysisResult, fileName string) (Document, error) {
	now := e.now()
	doc := Document{Name: FileName(kind, now), ContentType: kind.ContentType()}

	switch kind {
	case KindJSON:
		data, err := JSON(res)
		if err != nil {
			return Document{}, err
		}
		doc.Data = data
	case KindText:
		doc.Data = Text(res, fileName, now)
	default:
		return Document{}, fmt.Errorf("unknown export kind %q", kind)
	}

	if e.Archive != nil {
		key := path.Join("exports", owner, doc.Name)
		url, err := e.Archive.Put(ctx, key, doc.ContentType, doc.Data)
		if err != nil {
			e.logger().Warn("export archive failed", zap.String("key", key), zap.Error(err))
		} else {
			doc.ArchiveURL = url
		}
	}
	return doc, nil
}

func (e *Exporter) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Exporter) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
