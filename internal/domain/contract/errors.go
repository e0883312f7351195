package contract

import "fmt"

// InputError means the contract text is empty, undecodable or too large.
// The user has to fix the input; no session state changes.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error { return e.Err }

// UnsupportedFormatError is an advisory for recognized file types that cannot be read.
type UnsupportedFormatError struct {
	Format   string
	Advisory string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %s: %s", e.Format, e.Advisory)
}

// ExtractionError means no JSON object could be parsed from the completion text.
type ExtractionError struct {
	Excerpt string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("could not extract analysis JSON: %v", e.Err)
	}
	return fmt.Sprintf("could not extract analysis JSON: %v (near %q)", e.Err, e.Excerpt)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SchemaDriftError means the JSON parsed but does not have the expected shape.
type SchemaDriftError struct {
	Field  string
	Reason string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("analysis response schema drift: %s %s", e.Field, e.Reason)
}
