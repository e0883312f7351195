package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o"
)

type Client struct {
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

func NewClient(model, baseURL string, timeout time.Duration) *Client {
	return &Client{Model: model, BaseURL: baseURL, Timeout: timeout}
}

// ModelName is the configured model or the package default
func (c *Client) ModelName() string {
	if c.Model == "" {
		return defaultModel
	}
	return c.Model
}

// Complete builds a client for the session's key and makes exactly one request.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	cli := openai.NewClientWithConfig(cfg)

	model := c.ModelName()
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = ai.TokenLimit(c.MaxTokens)
	} else {
		req.MaxTokens = ai.TokenLimit(c.MaxTokens)
	}

	resp, err := cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", ai.NewServiceError(providerName, statusOf(err), fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ai.NewServiceError(providerName, 0, ai.ErrEmptyCompletion)
	}

	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
