// Package extract locates the JSON payload inside a free-form completion.
//
// Models often wrap their answer in markdown code fences. The lookup order is
// fixed: a json-tagged fence, then any fence, then the whole text. Only the
// first fenced block is considered.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

const (
	fence       = "```"
	taggedFence = "```json"
	excerptLen  = 80
)

// Candidate returns the trimmed text that should hold the JSON object.
// When the closing fence is missing the rest of the text is used.
func Candidate(text string) string {
	if i := strings.Index(text, taggedFence); i >= 0 {
		return between(text, i+len(taggedFence))
	}
	if i := strings.Index(text, fence); i >= 0 {
		return between(text, i+len(fence))
	}
	return strings.TrimSpace(text)
}

func between(text string, start int) string {
	rest := text[start:]
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// JSON extracts the candidate and checks that it is one well-formed JSON value.
func JSON(text string) (json.RawMessage, error) {
	c := Candidate(text)
	if c == "" {
		return nil, &contract.ExtractionError{Err: errEmpty}
	}
	if !json.Valid([]byte(c)) {
		var v any
		err := json.Unmarshal([]byte(c), &v)
		return nil, &contract.ExtractionError{Excerpt: excerpt(c), Err: err}
	}
	return json.RawMessage(c), nil
}

// Result runs JSON and then decodes the analysis payload.
func Result(text string) (*contract.AnalysisResult, error) {
	raw, err := JSON(text)
	if err != nil {
		return nil, err
	}
	return contract.Decode(raw)
}

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	return s[:excerptLen] + "..."
}
