package validator

import (
	"context"

	"adoptions/internal/domain"
)

// Severity decides whether a failed check blocks confirmation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one check against one field path.
type Result struct {
	Passed    bool   `json:"passed"`
	FieldPath string `json:"fieldPath"`
	Message   string `json:"message"`
}

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, record *domain.AdoptionRecord) []Result
	RuleKey() string
	RuleName() string
	Severity() Severity
}
