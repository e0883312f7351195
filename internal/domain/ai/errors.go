package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrUnauthorized indicates the provider rejected the API key (HTTP 401/403).
var ErrUnauthorized = errors.New("ai api key rejected")

// ErrEmptyCompletion is returned when the provider answered without any text.
var ErrEmptyCompletion = errors.New("empty completion")

// ServiceError wraps any failure of the completion call.
// One attempt is made; the caller decides whether to try again.
type ServiceError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s analysis failed (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s analysis failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is lets errors.Is match the quota and auth sentinels by status code.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrQuotaExceeded:
		return e.Status == 429
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	}
	return false
}

// NewServiceError builds a ServiceError, or nil when err is nil.
func NewServiceError(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Provider: provider, Status: status, Err: err}
}
