package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrProviderUnavailable is returned when a provider wrapper has nothing to call.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid schedule date")

// ProviderError wraps a failed fetch with the provider and date it concerned.
type ProviderError struct {
	Provider string
	Date     string
	// StatusCode is the upstream HTTP status, zero for transport or decode failures.
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: fetch %s: status %d: %v", e.Provider, e.Date, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: fetch %s: %v", e.Provider, e.Date, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// isPermanent reports errors that retrying cannot fix: cancellation, a missing
// provider, and client errors other than 429.
func isPermanent(err error) bool {
	if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrInvalidDate) {
		return true
	}
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		code := pErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}
	return false
}
