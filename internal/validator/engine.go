package validator

import (
	"context"

	"adoptions/internal/domain"
)

// Report is the outcome of validating one record.
type Report struct {
	Valid    bool                    `json:"valid"`
	Errors   []domain.FieldError     `json:"errors"`
	Warnings []domain.FieldError     `json:"warnings"`
	Fields   map[string]*FieldStatus `json:"fields"`
}

// Engine runs every registered rule against a record.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine. A nil registry uses the
// built-in rules.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Validate runs all rules and collects failures by severity.
func (e *Engine) Validate(ctx context.Context, record *domain.AdoptionRecord) Report {
	report := Report{
		Errors:   []domain.FieldError{},
		Warnings: []domain.FieldError{},
	}
	var entries []Entry
	for _, v := range e.registry.All() {
		for _, r := range v.Validate(ctx, record) {
			entries = append(entries, Entry{Result: r, Severity: v.Severity()})
			if r.Passed {
				continue
			}
			fe := domain.FieldError{Path: r.FieldPath, Message: r.Message}
			if v.Severity() == SeverityError {
				report.Errors = append(report.Errors, fe)
			} else {
				report.Warnings = append(report.Warnings, fe)
			}
		}
	}
	report.Valid = len(report.Errors) == 0
	report.Fields = ComputeFieldStatuses(entries)
	return report
}

// Check returns a *domain.ValidationError when any error-severity rule fails.
func (e *Engine) Check(ctx context.Context, record *domain.AdoptionRecord) error {
	report := e.Validate(ctx, record)
	if report.Valid {
		return nil
	}
	return &domain.ValidationError{Fields: report.Errors}
}
