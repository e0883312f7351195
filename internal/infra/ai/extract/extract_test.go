package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

const payload = `{"summary":{"total_issues":1,"critical":1,"warning":0,"informational":0},"findings":[{"category":"Payment Terms","severity":"critical","issue":"No GMP","details":"...","location":"Article 4","recommendation":"Add GMP clause"}]}`

func TestCandidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tagged fence", "Here is the result:\n```json\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"tagged fence wins over earlier bare fence", "```\nnot this\n```\n```json\n{\"b\":2}\n```", `{"b":2}`},
		{"bare fence", "Result:\n```\n{\"c\":3}\n```", `{"c":3}`},
		{"bare fence with other tag keeps tag", "```JSON\n{}\n```", "JSON\n{}"},
		{"only first block", "```json\n{\"first\":true}\n```\n```json\n{\"second\":true}\n```", `{"first":true}`},
		{"missing closing fence", "```json\n{\"open\":true}  \n", `{"open":true}`},
		{"no fence", "  \n{\"raw\":1}\n\t", `{"raw":1}`},
		{"no fence prose", "I could not analyze this.", "I could not analyze this."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidate(tt.in))
		})
	}
}

func TestJSONScenario(t *testing.T) {
	text := "Here is the result:\n```json\n" + payload + "\n```"
	raw, err := JSON(text)
	require.NoError(t, err)
	assert.Equal(t, payload, string(raw))

	res, err := Result(text)
	require.NoError(t, err)
	assert.Equal(t, contract.RiskHigh, contract.RiskLevelFor(res.Summary))
	assert.Len(t, contract.Filter(res.Findings, nil), 1)
}

func TestJSONFailures(t *testing.T) {
	for _, in := range []string{
		"I could not analyze this contract.",
		"```json\n{\"open\": true,",
		"   ",
	} {
		raw, err := JSON(in)
		assert.Nil(t, raw)

		var extractErr *contract.ExtractionError
		require.True(t, errors.As(err, &extractErr), "input %q: got %v", in, err)
	}
}

func TestResultSchemaDrift(t *testing.T) {
	_, err := Result("```json\n{\"summary\":{},\"findings\":[]}\n```")
	var drift *contract.SchemaDriftError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, "summary.total_issues", drift.Field)
}

func TestExcerptTruncates(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	got := excerpt(string(long))
	assert.Len(t, got, excerptLen+3)
}
