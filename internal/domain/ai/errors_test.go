package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceErrorMatchesSentinels(t *testing.T) {
	quota := NewServiceError("openai", 429, errors.New("rate limited"))
	assert.ErrorIs(t, quota, ErrQuotaExceeded)
	assert.NotErrorIs(t, quota, ErrUnauthorized)

	auth := fmt.Errorf("analyze: %w", NewServiceError("anthropic", 401, errors.New("bad key")))
	assert.ErrorIs(t, auth, ErrUnauthorized)

	var svc *ServiceError
	assert.ErrorAs(t, auth, &svc)
	assert.Equal(t, "anthropic", svc.Provider)
	assert.Contains(t, svc.Error(), "status 401")
}

func TestServiceErrorUnwrapsCause(t *testing.T) {
	err := NewServiceError("gemini", 0, ErrEmptyCompletion)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, "gemini analysis failed: empty completion", err.Error())
	assert.Nil(t, NewServiceError("gemini", 0, nil))
}
