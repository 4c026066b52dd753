package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("llm: credentials rejected by provider")
	ErrRateLimited  = errors.New("llm: rate limit exceeded, try again later")
	ErrUnavailable  = errors.New("llm: provider temporarily unavailable")
	ErrBadRequest   = errors.New("llm: request rejected by provider")
)

// APIError carries the provider's status and body alongside a sentinel.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// NewAPIError classifies an HTTP status from a provider.
func NewAPIError(provider string, status int, body string) *APIError {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway || status == http.StatusGatewayTimeout:
		kind = ErrUnavailable
	case status >= 400 && status < 500:
		kind = ErrBadRequest
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return &APIError{Provider: provider, StatusCode: status, Body: body, kind: kind}
}
