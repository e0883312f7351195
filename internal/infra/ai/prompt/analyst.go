package prompt

import "strings"

// redFlags are the common construction contract problems the model must look for.
var redFlags = []string{
	"Incomplete or TBD pricing/dates",
	"Missing or inadequate bonds/insurance",
	"Unclear scope definition",
	"Unfavorable payment terms",
	"Weak change order provisions",
	"High liquidated damages without caps",
	"Vague completion criteria",
	"Missing exhibits or schedules",
	"Unbalanced risk allocation",
	"Problematic dispute resolution terms",
}

// RedFlags returns a copy of the canonical red-flag categories.
func RedFlags() []string {
	return append([]string(nil), redFlags...)
}

const header = `You are an expert construction contract analyst specializing in identifying risks, red flags, and issues in construction contracts.

Analyze the following construction contract and provide a comprehensive analysis focusing on:

1. **Critical Issues** - Must be resolved before signing (missing GMP, undefined dates, lack of bonds)
2. **Warnings** - Items requiring negotiation or clarification (high markups, unfavorable terms, vague language)
3. **Informational** - Items to be aware of (standard clauses, best practices, recommendations)

For each issue found, provide:
- Category (Payment Terms, Timeline, Insurance, Scope, Risk Allocation, etc.)
- Severity (critical, warning, informational)
- Specific issue description
- Exact location in contract (Article, Section)
- Recommendation for project manager

Focus on common construction contract red flags:
`

// Schema is the literal example the completion must follow.
const Schema = `{
  "summary": {
    "total_issues": <number>,
    "critical": <number>,
    "warning": <number>,
    "informational": <number>
  },
  "findings": [
    {
      "category": "<category>",
      "severity": "<critical|warning|informational>",
      "issue": "<brief title>",
      "details": "<detailed explanation>",
      "location": "<Article X, Section Y>",
      "recommendation": "<action to take>"
    }
  ]
}`

// Compile embeds the contract text into the analysis instructions.
// The contract text is appended verbatim; braces in it are not interpreted.
func Compile(contractText string) string {
	var sb strings.Builder
	sb.Grow(len(header) + len(Schema) + len(contractText) + 512)

	sb.WriteString(header)
	for _, f := range redFlags {
		sb.WriteString("- ")
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nFormat your response as a JSON object with this structure:\n")
	sb.WriteString(Schema)
	sb.WriteString("\n\nCONTRACT TEXT:\n")
	sb.WriteString(contractText)
	sb.WriteByte('\n')
	return sb.String()
}
