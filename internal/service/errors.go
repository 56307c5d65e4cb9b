package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors surfaced to handlers for HTTP status mapping.
var (
	ErrInvalidAction   = errors.New("invalid action: must be OPEN, CLOSE, or STOP")
	ErrInvalidSource   = errors.New("invalid source: must be MANUAL, AI, or AUTO")
	ErrEmptyUserInput  = errors.New("missing required field: user_input")
	ErrAINotConfigured = errors.New("AI API key not configured")
)

// MalformedAIResponseError reports model output that could not be parsed into
// a decision. Raw keeps the stripped upstream text for diagnosis.
type MalformedAIResponseError struct {
	Raw string
}

func (e *MalformedAIResponseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %q", e.Raw)
}

// UpstreamError reports an AI service failure, preserving the upstream HTTP
// status so rate limits (429) can be passed through to the caller.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI upstream request failed: status=%d detail=%s", e.StatusCode, e.Detail)
}

// RateLimited reports whether the upstream rejected the call with HTTP 429.
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
