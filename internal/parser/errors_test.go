package parser_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/domain"
	"adoptions/internal/parser"
)

func TestRateLimitError_ErrorString(t *testing.T) {
	rlErr := parser.NewRateLimitError("claude", fmt.Errorf("rate limited"), 30)

	assert.Contains(t, rlErr.Error(), "claude")
	assert.Contains(t, rlErr.Error(), "30s")
}

func TestRateLimitError_DefaultRetryAfter(t *testing.T) {
	rlErr := parser.NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, rlErr.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 12, parser.ParseRetryAfterHeader("12"))
}

func TestStatusError_Mapping(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")

	var authErr *parser.AuthError
	require.ErrorAs(t, parser.StatusError("openai", http.StatusUnauthorized, h, []byte("bad key")), &authErr)
	require.ErrorAs(t, parser.StatusError("openai", http.StatusForbidden, h, nil), &authErr)

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, parser.StatusError("openai", http.StatusTooManyRequests, h, nil), &rlErr)
	assert.Equal(t, 7*time.Second, rlErr.RetryAfter)

	err := parser.StatusError("openai", http.StatusInternalServerError, h, []byte("boom"))
	assert.False(t, errors.As(err, &authErr))
	assert.False(t, errors.As(err, &rlErr))
	assert.Contains(t, err.Error(), "status 500")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domain.InferenceErrorKind
	}{
		{"auth", &parser.AuthError{Provider: "openai", Err: errors.New("401")}, domain.InferenceUnauthorized},
		{"wrapped auth", fmt.Errorf("all parsers failed: %w", &parser.AuthError{Provider: "claude"}), domain.InferenceUnauthorized},
		{"rate limit", parser.NewRateLimitError("gemini", errors.New("429"), 5), domain.InferenceRateLimited},
		{"malformed", &parser.MalformedResponseError{Provider: "openai", Err: errors.New("bad json")}, domain.InferenceMalformedResponse},
		{"not configured", domain.ErrNotConfigured, domain.InferenceNotConfigured},
		{"unknown", errors.New("connection reset"), domain.InferenceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ie := parser.Classify("openai", tt.err)
			assert.Equal(t, tt.kind, ie.Kind)
			assert.ErrorIs(t, ie, tt.err)
		})
	}
}

func TestClassify_UnauthorizedMessageMentionsSettings(t *testing.T) {
	ie := parser.Classify("openai", &parser.AuthError{Provider: "openai", Err: errors.New("401")})
	assert.Contains(t, ie.Error(), "API key")
	assert.Contains(t, ie.Error(), "settings")
}

func TestClassify_PassesThroughInferenceError(t *testing.T) {
	orig := &domain.InferenceError{Kind: domain.InferenceRateLimited, Provider: "x"}
	assert.Same(t, orig, parser.Classify("y", fmt.Errorf("wrap: %w", orig)))
}
