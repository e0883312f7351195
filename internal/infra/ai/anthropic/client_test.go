package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
)

type sentRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

const okReply = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",` +
	`"content":[{"type":"text","text":"` + "```json\\n{}\\n```" + `"}],` +
	`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`

func TestCompleteRequestShape(t *testing.T) {
	var got sentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okReply))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL+"/", 0)
	out, err := c.Complete(context.Background(), "key-123", "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "```json\n{}\n```", out)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, ai.MaxOutputTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.Len(t, got.Messages[0].Content, 1)
	assert.Equal(t, "the prompt", got.Messages[0].Content[0].Text)
}

func TestCompleteMaxTokensOverride(t *testing.T) {
	var got sentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okReply))
	}))
	defer srv.Close()

	c := NewClient("claude-custom", srv.URL, 0)
	c.MaxTokens = 1234
	_, err := c.Complete(context.Background(), "k", "p")
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", got.Model)
	assert.Equal(t, 1234, got.MaxTokens)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		wantCode int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, ai.ErrUnauthorized, http.StatusUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, ai.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`, nil, 529},
		{"no text", http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","content":[]}`, ai.ErrEmptyCompletion, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("", srv.URL, 0).Complete(context.Background(), "k", "p")
			require.Error(t, err)
			assert.EqualValues(t, 1, calls.Load())

			var svc *ai.ServiceError
			require.ErrorAs(t, err, &svc)
			assert.Equal(t, providerName, svc.Provider)
			assert.Equal(t, tt.wantCode, svc.Status)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient("", url, 0).Complete(context.Background(), "k", "p")
	var svc *ai.ServiceError
	require.ErrorAs(t, err, &svc)
	assert.Zero(t, svc.Status)
}
