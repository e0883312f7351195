// Package anthropic talks to the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
)

const (
	providerName = "anthropic"
	DefaultModel = "claude-sonnet-4-20250514"
)

type Client struct {
	Model      string
	BaseURL    string // empty keeps the SDK default
	HTTPClient *http.Client
	MaxTokens  int // 0 means ai.MaxOutputTokens
}

// NewClient returns a client for model. A zero timeout keeps the transport default.
func NewClient(model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends one user message and returns the text of the first text block.
// The SDK retry loop is switched off so a failure surfaces after one attempt.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(c.HTTPClient),
	}
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL+"/"))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.Model),
		MaxTokens: int64(ai.TokenLimit(c.MaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", ai.NewServiceError(providerName, apiErr.StatusCode, err)
		}
		return "", ai.NewServiceError(providerName, 0, err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", ai.NewServiceError(providerName, 0, ai.ErrEmptyCompletion)
}
