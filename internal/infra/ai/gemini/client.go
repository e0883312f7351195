// Package gemini sends analysis prompts to Google's Gemini API through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
)

const (
	providerName = "gemini"
	DefaultModel = "gemini-2.5-pro"
)

type Client struct {
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

func NewClient(model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{Model: model, BaseURL: baseURL, Timeout: timeout}
}

// Complete creates a genai client for the session key and generates once.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}
	if c.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.Timeout}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", ai.NewServiceError(providerName, 0, fmt.Errorf("failed to create GenAI client: %w", err))
	}

	resp, err := cli.Models.GenerateContent(ctx, c.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(ai.TokenLimit(c.MaxTokens)),
	})
	if err != nil {
		return "", ai.NewServiceError(providerName, statusOf(err), err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ai.NewServiceError(providerName, 0, ai.ErrEmptyCompletion)
	}
	return text, nil
}

func statusOf(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
