package validator

import (
	"context"
	"fmt"
	"strings"

	"adoptions/internal/domain"
)

// requiredFieldValidator checks that a required field is not blank.
type requiredFieldValidator struct {
	ruleKey     string
	ruleName    string
	fieldPath   string
	label       string
	perText     bool
	extract     func(*domain.AdoptionRecord) string
	extractText func(*domain.TextEntry) string
}

func (v *requiredFieldValidator) RuleKey() string    { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string   { return v.ruleName }
func (v *requiredFieldValidator) Severity() Severity { return SeverityError }

func (v *requiredFieldValidator) Validate(_ context.Context, record *domain.AdoptionRecord) []Result {
	if v.perText {
		results := make([]Result, 0, len(record.AdoptedTexts))
		for i := range record.AdoptedTexts {
			val := v.extractText(&record.AdoptedTexts[i])
			results = append(results, requiredResult(fmt.Sprintf("adoptedTexts[%d].%s", i, v.fieldPath), v.label, val))
		}
		return results
	}
	return []Result{requiredResult(v.fieldPath, v.label, v.extract(record))}
}

func requiredResult(fieldPath, label, val string) Result {
	passed := strings.TrimSpace(val) != ""
	msg := label + " is present"
	if !passed {
		msg = label + " is required"
	}
	return Result{Passed: passed, FieldPath: fieldPath, Message: msg}
}

// textsPresentValidator requires at least one adopted text.
type textsPresentValidator struct{}

func (textsPresentValidator) RuleKey() string    { return "req.adopted_texts" }
func (textsPresentValidator) RuleName() string   { return "Required: Adopted Texts" }
func (textsPresentValidator) Severity() Severity { return SeverityError }

func (textsPresentValidator) Validate(_ context.Context, record *domain.AdoptionRecord) []Result {
	if len(record.AdoptedTexts) == 0 {
		return []Result{{FieldPath: "adoptedTexts", Message: "at least one adopted text is required"}}
	}
	return []Result{{Passed: true, FieldPath: "adoptedTexts", Message: "adopted texts are present"}}
}

// authorsValidator requires at least one non-blank author on every text.
type authorsValidator struct{}

func (authorsValidator) RuleKey() string    { return "req.text.authors" }
func (authorsValidator) RuleName() string   { return "Required: Text Authors" }
func (authorsValidator) Severity() Severity { return SeverityError }

func (authorsValidator) Validate(_ context.Context, record *domain.AdoptionRecord) []Result {
	results := make([]Result, 0, len(record.AdoptedTexts))
	for i, t := range record.AdoptedTexts {
		path := fmt.Sprintf("adoptedTexts[%d].authors", i)
		passed := false
		for _, a := range t.Authors {
			if strings.TrimSpace(a) != "" {
				passed = true
				break
			}
		}
		msg := "authors are present"
		if !passed {
			msg = "at least one author is required"
		}
		results = append(results, Result{Passed: passed, FieldPath: path, Message: msg})
	}
	return results
}

// RequiredFieldValidators returns all required field validators.
func RequiredFieldValidators() []Validator {
	return []Validator{
		&requiredFieldValidator{
			ruleKey: "req.institution", ruleName: "Required: Institution",
			fieldPath: "institution", label: "institution",
			extract: func(r *domain.AdoptionRecord) string { return r.Institution },
		},
		&requiredFieldValidator{
			ruleKey: "req.degree_program", ruleName: "Required: Degree Program",
			fieldPath: "degreeProgram", label: "degree program",
			extract: func(r *domain.AdoptionRecord) string { return r.DegreeProgram },
		},
		&requiredFieldValidator{
			ruleKey: "req.degree_class", ruleName: "Required: Degree Class",
			fieldPath: "degreeClass", label: "degree class",
			extract: func(r *domain.AdoptionRecord) string { return r.DegreeClass },
		},
		&requiredFieldValidator{
			ruleKey: "req.subject", ruleName: "Required: Subject",
			fieldPath: "subject", label: "subject",
			extract: func(r *domain.AdoptionRecord) string { return r.Subject },
		},
		&requiredFieldValidator{
			ruleKey: "req.instructor", ruleName: "Required: Instructor",
			fieldPath: "instructor", label: "instructor",
			extract: func(r *domain.AdoptionRecord) string { return r.Instructor },
		},
		textsPresentValidator{},
		&requiredFieldValidator{
			ruleKey: "req.text.title", ruleName: "Required: Text Title",
			fieldPath: "title", label: "title", perText: true,
			extractText: func(t *domain.TextEntry) string { return t.Title },
		},
		&requiredFieldValidator{
			ruleKey: "req.text.publisher", ruleName: "Required: Text Publisher",
			fieldPath: "publisher", label: "publisher", perText: true,
			extractText: func(t *domain.TextEntry) string { return t.Publisher },
		},
		authorsValidator{},
	}
}
