package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/contract-analyzer/internal/application/export"
	"github.com/bryanwahyu/contract-analyzer/internal/middleware"
)

// Options tune the router. Zero values are usable.
type Options struct {
	Version        string
	MaxUploadBytes int64
	CORSOrigins    []string
	RateLimiter    *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	SecureCookies  bool
}

// Deps are the services behind the router.
type Deps struct {
	Analysis *analysis.Service
	Exporter *export.Exporter
	Sessions middleware.SessionStore
	Metrics  *middleware.Metrics
	Log      *zap.Logger
}

type Router struct {
	analysis *analysis.Service
	exporter *export.Exporter
	metrics  *middleware.Metrics
	log      *zap.Logger
	opts     Options
	tmpl     *template.Template
}

func NewRouter(d Deps, opts Options) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := &Router{
		analysis: d.Analysis,
		exporter: d.Exporter,
		metrics:  d.Metrics,
		log:      d.Log,
		opts:     opts,
		tmpl:     dashboardTemplate,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(d.Log), d.Metrics.Middleware)

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.Checkers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", d.Metrics.Handler)

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.Sessions(d.Sessions, opts.SecureCookies))
		rt.Get("/", r.handleDashboard)
		rt.With(middleware.RateLimit(opts.RateLimiter)).Post("/analyze", r.page(r.handleAnalyze))
		rt.Post("/reset", r.page(r.handleReset))
		rt.Post("/settings", r.page(r.handleSettings))
		rt.Get("/export/{kind}", r.wrap(r.handleExport))
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		rt.With(middleware.RateLimit(opts.RateLimiter)).Post("/analyze", r.wrap(r.handleAPIAnalyze))
		rt.Get("/audit", r.wrap(r.handleAudit))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap writes handler errors as JSON with the status from statusFor.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Int("status", status), zap.Error(err))
			}
			writeJSON(w, status, map[string]string{
				"error": userMessage(err),
				"kind":  analysis.ErrorKind(err),
			})
		}
	}
}

// page is wrap for dashboard forms: errors are rendered into the dashboard as a
// flash message, with the mapped status, and the session stays usable.
func (r *Router) page(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.Warn("dashboard action failed", zap.String("path", req.URL.Path), zap.Int("status", status), zap.Error(err))
			}
			r.render(w, req, status, flashFor(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

var errNoResult = errors.New("no analysis result to export")
