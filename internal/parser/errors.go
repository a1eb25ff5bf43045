package parser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"adoptions/internal/domain"
)

// RateLimitError indicates a parser provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// AuthError indicates a provider rejected the API key (HTTP 401/403).
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected credentials: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates the provider answered but the payload
// could not be turned into a record.
type MalformedResponseError struct {
	Provider string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s malformed response: %v", e.Provider, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// StatusError maps a non-200 provider response to the matching error type.
func StatusError(provider string, status int, header http.Header, body []byte) error {
	baseErr := fmt.Errorf("%s API error (status %d): %s", provider, status, truncate(string(body), 500))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Provider: provider, Err: baseErr}
	case http.StatusTooManyRequests:
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(header.Get("Retry-After")))
	default:
		return baseErr
	}
}

// Classify converts any parser failure into a *domain.InferenceError.
func Classify(provider string, err error) *domain.InferenceError {
	var ie *domain.InferenceError
	if errors.As(err, &ie) {
		return ie
	}
	var authErr *AuthError
	var rlErr *RateLimitError
	var mfErr *MalformedResponseError
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return &domain.InferenceError{Kind: domain.InferenceNotConfigured, Provider: provider, Err: err}
	case errors.As(err, &authErr):
		return &domain.InferenceError{Kind: domain.InferenceUnauthorized, Provider: authErr.Provider, Err: err}
	case errors.As(err, &rlErr):
		return &domain.InferenceError{Kind: domain.InferenceRateLimited, Provider: rlErr.Provider, RetryAfter: rlErr.RetryAfter, Err: err}
	case errors.As(err, &mfErr):
		return &domain.InferenceError{Kind: domain.InferenceMalformedResponse, Provider: mfErr.Provider, Err: err}
	default:
		return &domain.InferenceError{Kind: domain.InferenceUnknown, Provider: provider, Err: err}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
