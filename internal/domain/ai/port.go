package ai

import "context"

// Client sends one compiled prompt to a completion endpoint and returns the raw text.
// The API key belongs to the caller's session and is passed on every call.
type Client interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// MaxOutputTokens bounds every completion request.
const MaxOutputTokens = 8000

// TokenLimit returns n, or MaxOutputTokens when n is not positive.
func TokenLimit(n int) int {
	if n <= 0 {
		return MaxOutputTokens
	}
	return n
}
