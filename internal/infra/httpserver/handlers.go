package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/contract-analyzer/internal/application/export"
	"github.com/bryanwahyu/contract-analyzer/internal/application/intake"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/middleware"
)

// multipart overhead allowed on top of the upload limit
const formOverhead = 1 << 20

// GET /?filtered=1&severity=critical&severity=warning
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) {
	r.render(w, req, http.StatusOK, nil)
}

func (r *Router) render(w http.ResponseWriter, req *http.Request, status int, f *flash) {
	sess := middleware.SessionFromContext(req.Context())
	q := req.URL.Query()
	selected := contract.SelectSeverities(q["severity"], q.Get("filtered") != "")
	view := buildView(sess.Snapshot(), selected, r.opts.Version, r.opts.MaxUploadBytes, f)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tmpl.Execute(w, view); err != nil {
		r.log.Error("render dashboard", zap.Error(err))
	}
}

// POST /analyze (multipart: file, text, api_key, role)
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.SessionFromContext(req.Context())

	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes+formOverhead)
	if err := req.ParseMultipartForm(r.opts.MaxUploadBytes + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &contract.InputError{Reason: fmt.Sprintf("file exceeds the %d byte upload limit", r.opts.MaxUploadBytes), Err: err}
		}
		return &contract.InputError{Reason: "malformed form", Err: err}
	}

	sess.SetRole(req.FormValue("role"))
	sess.SetAPIKey(req.FormValue("api_key"))
	pasted := req.FormValue("text")

	var upload *intake.Upload
	if strings.TrimSpace(pasted) == "" {
		file, hdr, err := req.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return &contract.InputError{Reason: "could not read upload", Err: err}
		default:
			defer file.Close()
			name := middleware.SanitizeFileName(hdr.Filename)
			upload, err = intake.ReadUpload(file, name, hdr.Header.Get("Content-Type"), r.opts.MaxUploadBytes)
			if err != nil {
				return err
			}
		}
	}

	in, err := intake.Resolve(pasted, upload)
	if err != nil {
		return err
	}

	done := r.metrics.AnalysisStarted()
	_, err = r.analysis.Run(req.Context(), sess, analysis.AnalysisRequest{
		ContractText: in.Text,
		APIKey:       sess.APIKey(),
		FileName:     in.FileName,
		Role:         sess.Snapshot().Role,
	})
	done(err != nil)
	if err != nil {
		return err
	}

	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// POST /reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	middleware.SessionFromContext(req.Context()).Reset()
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// POST /settings (role, api_key)
func (r *Router) handleSettings(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseForm(); err != nil {
		return &contract.InputError{Reason: "malformed form", Err: err}
	}
	sess := middleware.SessionFromContext(req.Context())
	sess.SetRole(req.PostFormValue("role"))
	sess.SetAPIKey(req.PostFormValue("api_key"))
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// GET /export/{kind}, kind is json or txt
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	kind, ok := export.ParseKind(chi.URLParam(req, "kind"))
	if !ok {
		return errNoResult
	}
	sess := middleware.SessionFromContext(req.Context())
	st := sess.Snapshot()
	if st.Result == nil {
		return errNoResult
	}

	doc, err := r.exporter.Render(req.Context(), kind, sess.ID, st.Result, st.FileName)
	if err != nil {
		return err
	}
	r.metrics.ExportServed()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if doc.ArchiveURL != "" {
		w.Header().Set("X-Archive-URL", doc.ArchiveURL)
	}
	_, err = w.Write(doc.Data)
	return err
}

type apiAnalyzeRequest struct {
	Text     string `json:"text"`
	APIKey   string `json:"api_key"`
	FileName string `json:"file_name"`
}

type apiAnalyzeResponse struct {
	Result     *contract.AnalysisResult `json:"result"`
	RiskLevel  contract.RiskLevel       `json:"risk_level"`
	Banner     string                   `json:"banner"`
	Consistent bool                     `json:"consistent"`
}

// POST /v1/analyze
// Body: {"text": "...", "api_key": "...", "file_name": "optional.txt"}
// Stateless: nothing is kept after the response is written.
func (r *Router) handleAPIAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes+formOverhead)
	var body apiAnalyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &contract.InputError{Reason: "invalid JSON body", Err: err}
	}

	done := r.metrics.AnalysisStarted()
	res, err := r.analysis.Analyze(req.Context(), analysis.AnalysisRequest{
		ContractText: body.Text,
		APIKey:       body.APIKey,
		FileName:     middleware.SanitizeFileName(body.FileName),
	})
	done(err != nil)
	if err != nil {
		return err
	}

	risk, banner := contract.Banner(res.Summary)
	return writeJSON(w, http.StatusOK, apiAnalyzeResponse{
		Result:     res,
		RiskLevel:  risk,
		Banner:     banner,
		Consistent: res.Consistent(),
	})
}

// GET /v1/audit?page=&page_size=
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.analysis.ListAudit(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}
