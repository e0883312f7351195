package analysis

import (
	"errors"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/session"
)

// ErrAuditDisabled is returned by ListAudit when no audit repository is configured.
var ErrAuditDisabled = errors.New("audit log is disabled")

// ErrorKind names the error taxonomy bucket of err, for logs and audit rows.
func ErrorKind(err error) string {
	var (
		inputErr       *contract.InputError
		unsupportedErr *contract.UnsupportedFormatError
		extractErr     *contract.ExtractionError
		driftErr       *contract.SchemaDriftError
		svcErr         *ai.ServiceError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "busy"
	case errors.As(err, &inputErr):
		return "input"
	case errors.As(err, &unsupportedErr):
		return "unsupported_format"
	case errors.As(err, &driftErr):
		return "schema_drift"
	case errors.As(err, &extractErr):
		return "extraction"
	case errors.Is(err, ai.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ai.ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &svcErr):
		return "service"
	}
	return "internal"
}
