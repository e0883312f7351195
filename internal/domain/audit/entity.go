package audit

import (
	"time"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

// RecordID identifier type
type RecordID string

// Outcome of one analysis attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Record describes one analysis attempt for operators.
// It never carries contract text, file names, findings or the API key.
type Record struct {
	ID         RecordID           `json:"id"`
	SessionID  string             `json:"session_id,omitempty"`
	Role       string             `json:"role,omitempty"`
	Provider   string             `json:"provider"`
	Model      string             `json:"model"`
	Outcome    Outcome            `json:"outcome"`
	ErrorKind  string             `json:"error_kind,omitempty"`
	Counts     contract.Summary   `json:"counts"`
	RiskLevel  contract.RiskLevel `json:"risk_level,omitempty"`
	DurationMS int64              `json:"duration_ms"`
	CreatedAt  time.Time          `json:"created_at"`
}
