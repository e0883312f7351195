// Package provider picks the analysis client named in the configuration.
package provider

import (
	"fmt"
	"time"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/gemini"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/openai"
)

// Settings mirror the ai section of the config file.
type Settings struct {
	Provider  string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// New returns the client for s.Provider and the model it will call.
func New(s Settings) (ai.Client, string, error) {
	switch s.Provider {
	case "", "anthropic":
		c := anthropic.NewClient(s.Model, s.BaseURL, s.Timeout)
		c.MaxTokens = s.MaxTokens
		return c, c.Model, nil
	case "openai":
		c := openai.NewClient(s.Model, s.BaseURL, s.Timeout)
		c.MaxTokens = s.MaxTokens
		return c, c.ModelName(), nil
	case "gemini":
		c := gemini.NewClient(s.Model, s.BaseURL, s.Timeout)
		c.MaxTokens = s.MaxTokens
		return c, c.Model, nil
	}
	return nil, "", fmt.Errorf("unknown analysis provider %q", s.Provider)
}
