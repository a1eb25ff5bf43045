package validator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"adoptions/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	isbnPattern  = regexp.MustCompile(`^(97[89])?\d{9}[\dX]$`)
)

// formatValidator checks field formats. Failures are warnings and never block
// confirmation.
type formatValidator struct {
	ruleKey  string
	ruleName string
	validate func(*domain.AdoptionRecord) []Result
}

func (v *formatValidator) RuleKey() string    { return v.ruleKey }
func (v *formatValidator) RuleName() string   { return v.ruleName }
func (v *formatValidator) Severity() Severity { return SeverityWarning }

func (v *formatValidator) Validate(_ context.Context, record *domain.AdoptionRecord) []Result {
	return v.validate(record)
}

func regexCheck(fieldPath, value, label string, re *regexp.Regexp) Result {
	if value == "" {
		return Result{Passed: true, FieldPath: fieldPath, Message: label + " is empty, skipping format check"}
	}
	if !re.MatchString(value) {
		return Result{FieldPath: fieldPath, Message: label + " does not look valid"}
	}
	return Result{Passed: true, FieldPath: fieldPath, Message: label + " matches expected format"}
}

// NormalizeISBN strips separators from an ISBN.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(isbn))
}

// FormatValidators returns all format validators.
func FormatValidators() []Validator {
	return []Validator{
		&formatValidator{
			ruleKey: "fmt.instructor_email", ruleName: "Format: Instructor Email",
			validate: func(r *domain.AdoptionRecord) []Result {
				return []Result{regexCheck("instructorEmail", strings.TrimSpace(r.InstructorEmail), "instructor email", emailPattern)}
			},
		},
		&formatValidator{
			ruleKey: "fmt.degree_class", ruleName: "Format: Degree Class",
			validate: func(r *domain.AdoptionRecord) []Result {
				if r.DegreeClass == "" {
					return nil
				}
				if _, ok := domain.LookupDegreeClass(r.DegreeClass); !ok {
					return []Result{{FieldPath: "degreeClass", Message: fmt.Sprintf("degree class %q is not in the catalog", r.DegreeClass)}}
				}
				return []Result{{Passed: true, FieldPath: "degreeClass", Message: "degree class is in the catalog"}}
			},
		},
		&formatValidator{
			ruleKey: "fmt.credits", ruleName: "Format: Credits",
			validate: func(r *domain.AdoptionRecord) []Result {
				if r.Credits < 0 || r.Credits > 30 {
					return []Result{{FieldPath: "credits", Message: "credits should be between 0 and 30"}}
				}
				return []Result{{Passed: true, FieldPath: "credits", Message: "credits are in range"}}
			},
		},
		&formatValidator{
			ruleKey: "fmt.text.isbn", ruleName: "Format: Text ISBN",
			validate: func(r *domain.AdoptionRecord) []Result {
				results := make([]Result, 0, len(r.AdoptedTexts))
				for i, t := range r.AdoptedTexts {
					results = append(results, regexCheck(fmt.Sprintf("adoptedTexts[%d].isbn", i), NormalizeISBN(t.ISBN), "ISBN", isbnPattern))
				}
				return results
			},
		},
		&formatValidator{
			ruleKey: "fmt.text.year", ruleName: "Format: Text Year",
			validate: func(r *domain.AdoptionRecord) []Result {
				maxYear := time.Now().Year() + 1
				var results []Result
				for i, t := range r.AdoptedTexts {
					if t.Year == nil {
						continue
					}
					path := fmt.Sprintf("adoptedTexts[%d].year", i)
					if *t.Year < 1800 || *t.Year > maxYear {
						results = append(results, Result{FieldPath: path, Message: fmt.Sprintf("year %d is out of range", *t.Year)})
						continue
					}
					results = append(results, Result{Passed: true, FieldPath: path, Message: "year is in range"})
				}
				return results
			},
		},
	}
}
