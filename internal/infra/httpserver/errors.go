package httpserver

import (
	"errors"
	"net/http"

	"github.com/bryanwahyu/contract-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/session"
)

func statusFor(err error) int {
	var (
		inputErr       *contract.InputError
		unsupportedErr *contract.UnsupportedFormatError
		extractErr     *contract.ExtractionError
		driftErr       *contract.SchemaDriftError
		svcErr         *ai.ServiceError
		tooLarge       *http.MaxBytesError
	)
	switch {
	case errors.Is(err, errNoResult), errors.Is(err, analysis.ErrAuditDisabled):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &inputErr), errors.As(err, &driftErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr):
		return http.StatusBadGateway
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &svcErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// userMessage is what the user sees. Internal errors are not echoed.
func userMessage(err error) string {
	var unsupportedErr *contract.UnsupportedFormatError
	switch {
	case errors.As(err, &unsupportedErr):
		return unsupportedErr.Advisory
	case errors.Is(err, session.ErrBusy):
		return "An analysis is already running for this session. Please wait for it to finish."
	case errors.Is(err, ai.ErrQuotaExceeded):
		return "The analysis service quota was exceeded. Check your plan or try again later."
	case errors.Is(err, ai.ErrUnauthorized):
		return "The analysis service rejected the API key. Check the key in the sidebar."
	}
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

type flash struct {
	Kind    string // error, warning, info
	Message string
}

func flashFor(err error) *flash {
	var unsupportedErr *contract.UnsupportedFormatError
	kind := "error"
	if errors.As(err, &unsupportedErr) || errors.Is(err, session.ErrBusy) {
		kind = "warning"
	}
	return &flash{Kind: kind, Message: userMessage(err)}
}
