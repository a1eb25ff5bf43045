package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries the syllabus text sent to an LLM provider.
type ParseInput struct {
	Text     string
	FileName string
}

// ParseOutput contains the raw structured result from an LLM provider.
type ParseOutput struct {
	StructuredData json.RawMessage
	ModelUsed      string
	PromptUsed     string
}

// DocumentParser abstracts a single LLM provider.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
