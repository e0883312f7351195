package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/audit"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/session"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/extract"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/prompt"
)

// AnalysisRequest is created per analysis and dropped when the call returns.
type AnalysisRequest struct {
	ContractText string
	APIKey       string
	FileName     string
	SessionID    string
	Role         string
}

// Service runs the analysis pipeline: prompt, one completion, extraction, decoding.
type Service struct {
	Client   ai.Client
	Audit    audit.Repository // optional
	Clock    application.Clock
	Log      *zap.Logger
	Provider string
	Model    string
}

// Analyze makes exactly one completion call. Every failure is returned to the
// caller; nothing is retried.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*contract.AnalysisResult, error) {
	log := s.logger().With(
		zap.String("session", req.SessionID),
		zap.String("provider", s.Provider),
		zap.Int("contract_len", len(req.ContractText)),
	)
	start := s.now()

	res, err := s.analyze(ctx, req)
	elapsed := s.now().Sub(start)

	if err != nil {
		log.Warn("contract analysis failed", zap.String("kind", ErrorKind(err)), zap.Duration("duration", elapsed), zap.Error(err))
	} else {
		log.Info("contract analysis finished",
			zap.Int("findings", len(res.Findings)),
			zap.Int("critical", res.Summary.Critical),
			zap.Duration("duration", elapsed),
		)
		if !res.Consistent() {
			reconciled := res.Summary.Reconcile(res.Findings)
			log.Warn("reported summary disagrees with findings",
				zap.Int("reported_total", res.Summary.TotalIssues),
				zap.Int("actual_total", reconciled.TotalIssues),
			)
		}
	}

	s.record(ctx, req, res, err, elapsed)
	return res, err
}

func validate(req AnalysisRequest) error {
	if strings.TrimSpace(req.ContractText) == "" {
		return &contract.InputError{Reason: "contract text is empty"}
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return &contract.InputError{Reason: "API key is required"}
	}
	return nil
}

func (s *Service) analyze(ctx context.Context, req AnalysisRequest) (*contract.AnalysisResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	text, err := s.Client.Complete(ctx, req.APIKey, prompt.Compile(req.ContractText))
	if err != nil {
		var svc *ai.ServiceError
		if !errors.As(err, &svc) {
			err = ai.NewServiceError(s.Provider, 0, err)
		}
		return nil, err
	}

	return extract.Result(text)
}

// Run is the session-aware trigger. Only one analysis runs per session at a time;
// the previous result is dropped before the call and replaced only on success.
// An invalid request leaves the session untouched.
func (s *Service) Run(ctx context.Context, sess *session.Session, req AnalysisRequest) (*contract.AnalysisResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := sess.Begin(); err != nil {
		return nil, err
	}

	req.SessionID = sess.ID
	res, err := s.Analyze(ctx, req)
	if err != nil {
		sess.Abort()
		return nil, err
	}
	sess.Complete(res, req.FileName, s.now())
	return res, nil
}

// ListAudit returns a page of audit records, or an error when auditing is off.
func (s *Service) ListAudit(ctx context.Context, page, pageSize int) ([]*audit.Record, error) {
	if s.Audit == nil {
		return nil, ErrAuditDisabled
	}
	return s.Audit.Paginate(ctx, page, pageSize)
}

// record writes the audit row. Failures are logged only.
func (s *Service) record(ctx context.Context, req AnalysisRequest, res *contract.AnalysisResult, err error, elapsed time.Duration) {
	if s.Audit == nil {
		return
	}
	rec := &audit.Record{
		ID:         audit.RecordID(uuid.NewString()),
		SessionID:  req.SessionID,
		Role:       req.Role,
		Provider:   s.Provider,
		Model:      s.Model,
		Outcome:    audit.OutcomeSuccess,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  s.now(),
	}
	if err != nil {
		rec.Outcome = audit.OutcomeFailed
		rec.ErrorKind = ErrorKind(err)
	} else {
		rec.Counts = res.Summary
		rec.RiskLevel = contract.RiskLevelFor(res.Summary)
	}

	if saveErr := s.Audit.Save(ctx, rec); saveErr != nil {
		s.logger().Error("failed to save audit record", zap.String("id", string(rec.ID)), zap.Error(fmt.Errorf("audit save: %w", saveErr)))
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
