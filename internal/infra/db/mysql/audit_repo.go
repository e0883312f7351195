package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/audit"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS analysis_audit (
  id             VARCHAR(36)  NOT NULL PRIMARY KEY,
  session_id     VARCHAR(64)  NOT NULL,
  role           VARCHAR(64)  NOT NULL,
  provider       VARCHAR(32)  NOT NULL,
  model          VARCHAR(128) NOT NULL,
  outcome        VARCHAR(16)  NOT NULL,
  error_kind     VARCHAR(32)  NOT NULL,
  total_issues   INT          NOT NULL,
  critical       INT          NOT NULL,
  warning        INT          NOT NULL,
  informational  INT          NOT NULL,
  risk_level     VARCHAR(16)  NOT NULL,
  duration_ms    BIGINT       NOT NULL,
  created_at     DATETIME(3)  NOT NULL,
  INDEX idx_analysis_audit_created (created_at)
);`

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Migrate creates the audit table when it does not exist yet
func (r *AuditRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("create analysis_audit: %w", err)
	}
	return nil
}

// Save inserts an audit record
func (r *AuditRepository) Save(ctx context.Context, a *audit.Record) error {
	const q = `
INSERT INTO analysis_audit
  (id, session_id, role, provider, model, outcome, error_kind,
   total_issues, critical, warning, informational, risk_level, duration_ms, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  outcome=VALUES(outcome), error_kind=VALUES(error_kind), duration_ms=VALUES(duration_ms);
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), stringOrDash(a.SessionID), stringOrDash(a.Role),
		a.Provider, stringOrDash(a.Model), string(a.Outcome), stringOrDash(a.ErrorKind),
		a.Counts.TotalIssues, a.Counts.Critical, a.Counts.Warning, a.Counts.Informational,
		stringOrDash(string(a.RiskLevel)), a.DurationMS, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// Paginate returns a page of audit records ordered by created_at desc
func (r *AuditRepository) Paginate(ctx context.Context, page, pageSize int) ([]*audit.Record, error) {
	limit, offset := limitOffset(page, pageSize)

	const q = `
SELECT id, session_id, role, provider, model, outcome, error_kind,
       total_issues, critical, warning, informational, risk_level, duration_ms, created_at
FROM analysis_audit
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	defer rows.Close()

	out := make([]*audit.Record, 0, limit)
	for rows.Next() {
		var (
			a                 audit.Record
			id, outcome, risk string
		)
		if err := rows.Scan(&id, &a.SessionID, &a.Role, &a.Provider, &a.Model, &outcome, &a.ErrorKind,
			&a.Counts.TotalIssues, &a.Counts.Critical, &a.Counts.Warning, &a.Counts.Informational,
			&risk, &a.DurationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		a.ID = audit.RecordID(id)
		a.Outcome = audit.Outcome(outcome)
		a.RiskLevel = contract.RiskLevel(dashToEmpty(risk))
		a.SessionID = dashToEmpty(a.SessionID)
		a.Role = dashToEmpty(a.Role)
		a.Model = dashToEmpty(a.Model)
		a.ErrorKind = dashToEmpty(a.ErrorKind)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Ping reports database reachability for readiness checks
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
