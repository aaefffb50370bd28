package domain

import (
	"errors"
	"fmt"
)

// Collaborator-boundary failures. Extraction-level gaps (no headers, no CTA
// matches) are never errors; reconciliation corrects bad scores in place.
var (
	// ErrEmptyContent means the scrape returned neither usable markdown nor HTML.
	ErrEmptyContent = errors.New("scraped content is empty or missing")

	// ErrRateLimited is the scoring collaborator's 429-equivalent. The caller
	// may retry after a delay; the pipeline itself never retries.
	ErrRateLimited = errors.New("scoring rate limit exceeded")

	// ErrQuotaExhausted is the scoring collaborator's 402-equivalent.
	ErrQuotaExhausted = errors.New("scoring credits exhausted")

	// ErrNoToolCall means the scoring collaborator returned no structured
	// tool payload at all.
	ErrNoToolCall = errors.New("no tool call in response")

	// ErrMalformedPayload means a tool payload was present but did not parse
	// as the expected shape.
	ErrMalformedPayload = errors.New("malformed scoring payload")

	// ErrAuditNotFound is returned when an audit record does not exist.
	ErrAuditNotFound = errors.New("audit not found")
)

// FetchError is a non-2xx response from the fetch collaborator. The
// collaborator's own message is surfaced verbatim.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fetch failed with status %d", e.StatusCode)
	}
	return e.Message
}
