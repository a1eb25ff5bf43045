package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"adoptions/internal/config"
	"adoptions/internal/parser"
	"adoptions/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using the Anthropic Messages API.
type Parser struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewParser creates a Claude-based syllabus parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return newParser(cfg, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
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
		"model":       p.model,
		"max_tokens":  p.maxTokens,
		"temperature": p.temperature,
		"system":      parser.SystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
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
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parser.StatusError(providerName, resp.StatusCode, resp.Header, respBody)
	}

	return parseResponse(respBody, p.model, prompt)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	if len(resp.Content) == 0 {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: errors.New("empty response from API")}
	}

	if resp.StopReason == "max_tokens" {
		return nil, &parser.MalformedResponseError{Provider: providerName, Err: errors.New("output truncated (stop_reason: max_tokens)")}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	data, err := parser.ExtractJSON(providerName, text)
	if err != nil {
		return nil, err
	}

	return &port.ParseOutput{
		StructuredData: data,
		ModelUsed:      model,
		PromptUsed:     prompt,
	}, nil
}
