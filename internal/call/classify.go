package call

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Error codes forming the pipeline's error taxonomy
const (
	CodeNetwork     = "NETWORK"
	CodeRateLimit   = "RATE_LIMIT"
	CodeServerError = "SERVER_ERROR"
	CodeTimeout     = "TIMEOUT"
	CodeAuth        = "AUTH_ERROR"
	CodeBadRequest  = "BAD_REQUEST"
	CodeParse       = "PARSE_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeUnknown     = "UNKNOWN_ERROR"
)

// Error is a classified failure surfaced by the orchestrator
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPError carries an HTTP status from a provider so classification can act
// on it. Providers wrap non-2xx responses in this type.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

var networkErrorMarkers = []string{
	"connection reset",
	"connection refused",
	"no such host",
	"broken pipe",
	"econnreset",
	"econnrefused",
	"etimedout",
	"network is unreachable",
	"unexpected eof",
}

// Classify maps an operation error onto the error taxonomy. The checks are
// order-sensitive: transport-level signals first, then HTTP status, then
// cancellation, and anything unrecognized defaults to retryable. The
// optimistic default means a deterministic provider error that we fail to
// recognize will be retried; exposing Classify separately lets a stricter
// caller substitute its own policy without touching Execute.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeTimeout, Message: msg, Retryable: true}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Code: CodeTimeout, Message: msg, Retryable: true}
	}

	for _, marker := range networkErrorMarkers {
		if strings.Contains(lower, marker) {
			return &Error{Code: CodeNetwork, Message: msg, Retryable: true}
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 429:
			return &Error{Code: CodeRateLimit, Message: msg, Retryable: true}
		case httpErr.StatusCode >= 500:
			return &Error{Code: CodeServerError, Message: msg, Retryable: true}
		case httpErr.StatusCode == 408:
			return &Error{Code: CodeTimeout, Message: msg, Retryable: true}
		case httpErr.StatusCode == 401 || httpErr.StatusCode == 403:
			return &Error{Code: CodeAuth, Message: msg, Retryable: false}
		case httpErr.StatusCode == 400:
			return &Error{Code: CodeBadRequest, Message: msg, Retryable: false}
		}
	}

	// A cancelled context behaves like an abandoned attempt
	if errors.Is(err, context.Canceled) || strings.Contains(lower, "abort") {
		return &Error{Code: CodeTimeout, Message: msg, Retryable: true}
	}

	return &Error{Code: CodeUnknown, Message: msg, Retryable: true}
}
