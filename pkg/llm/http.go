package llm

import (
	"context"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for provider calls. timeout bounds the wait
// for response headers only, so a long streamed body is never cut off.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

// WithDeadline bounds a whole non-streaming call. A zero timeout leaves ctx
// unchanged.
func WithDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
