package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/config"
	"adoptions/internal/parser"
	"adoptions/internal/parser/gemini"
	"adoptions/internal/port"
)

func newTestParser(serverURL string) *gemini.Parser {
	return gemini.NewParserWithEndpoint(&config.ParserProviderConfig{
		Provider:    "gemini",
		APIKey:      "test-gemini-key",
		TimeoutSecs: 30,
	}, serverURL)
}

func TestGeminiParser_Parse_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		gen := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", gen["responseMimeType"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]interface{}{{"text": `{"instructor":"Anna Bianchi"}`}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Text: "syllabus"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"instructor":"Anna Bianchi"}`, string(out.StructuredData))
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
}

func TestGeminiParser_Parse_InvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Text: "x"})

	var authErr *parser.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestGeminiParser_Parse_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Text: "x"})

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
}

func TestGeminiParser_Parse_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{Text: "x"})

	var mf *parser.MalformedResponseError
	require.ErrorAs(t, err, &mf)
}
