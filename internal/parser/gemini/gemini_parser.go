package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adoptions/internal/config"
	"adoptions/internal/parser"
	"adoptions/internal/port"
)

const (
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using Google's Gemini API.
type Parser struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewParser creates a Gemini-based syllabus parser.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return newParser(cfg, "")
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	return &Parser{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	prompt := parser.BuildSyllabusPrompt(input.Text)

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{{"text": parser.SystemPrompt}},
		},
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]interface{}{{"text": prompt}},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  p.maxTokens,
			"temperature":      p.temperature,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Gemini reports invalid keys as 400 with reason API_KEY_INVALID.
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(respBody), "API_KEY_INVALID") {
			return nil, parser.StatusError(providerName, http.StatusUnauthorized, resp.Header, respBody)
		}
		return nil, parser.StatusError(providerName, resp.StatusCode, resp.Header, respBody)
	}

	return parseResponse(respBody, p.model, prompt)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	if len(resp.Candidates) == 0 {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: errors.New("empty response from API: no candidates")}
	}

	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: errors.New("output truncated (finishReason: MAX_TOKENS)")}
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: errors.New("empty response from API: no parts")}
	}

	data, err := parser.ExtractJSON(providerName, resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	return &port.ParseOutput{
		StructuredData: data,
		ModelUsed:      model,
		PromptUsed:     prompt,
	}, nil
}
