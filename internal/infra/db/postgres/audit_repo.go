package postgres

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
  id             TEXT        PRIMARY KEY,
  session_id     TEXT        NOT NULL,
  role           TEXT        NOT NULL,
  provider       TEXT        NOT NULL,
  model          TEXT        NOT NULL,
  outcome        TEXT        NOT NULL,
  error_kind     TEXT        NOT NULL,
  total_issues   INTEGER     NOT NULL,
  critical       INTEGER     NOT NULL,
  warning        INTEGER     NOT NULL,
  informational  INTEGER     NOT NULL,
  risk_level     TEXT        NOT NULL,
  duration_ms    BIGINT      NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_audit_created ON analysis_audit (created_at DESC);`

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Migrate creates the audit table and index
func (r *AuditRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("create analysis_audit: %w", err)
	}
	return nil
}

// Save inserts or updates an audit record
func (r *AuditRepository) Save(ctx context.Context, a *audit.Record) error {
	const q = `
INSERT INTO analysis_audit
  (id, session_id, role, provider, model, outcome, error_kind,
   total_issues, critical, warning, informational, risk_level, duration_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  outcome=EXCLUDED.outcome,
  error_kind=EXCLUDED.error_kind,
  duration_ms=EXCLUDED.duration_ms;
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), stringOrDash(a.SessionID), stringOrDash(a.Role),
		a.Provider, stringOrDash(a.Model), string(a.Outcome), stringOrDash(a.ErrorKind),
		a.Counts.TotalIssues, a.Counts.Critical, a.Counts.Warning, a.Counts.Informational,
		stringOrDash(string(a.RiskLevel)), a.DurationMS, createdAt,
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
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying audit: %w", err)
	}
	defer rows.Close()

	out := make([]*audit.Record, 0, limit)
	for rows.Next() {
		var a audit.Record
		var id, outcome, risk string
		if err := rows.Scan(&id, &a.SessionID, &a.Role, &a.Provider, &a.Model, &outcome, &a.ErrorKind,
			&a.Counts.TotalIssues, &a.Counts.Critical, &a.Counts.Warning, &a.Counts.Informational,
			&risk, &a.DurationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
