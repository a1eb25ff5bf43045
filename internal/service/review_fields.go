package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"adoptions/internal/domain"
)

type pathSegment struct {
	name    string
	index   int
	indexed bool
}

// parseFieldPath splits paths such as "adoptedTexts[1].authors[0]".
func parseFieldPath(path string) ([]pathSegment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidFieldPath)
	}
	parts := strings.Split(path, ".")
	segs := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		seg := pathSegment{name: part}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") || open == 0 {
				return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFieldPath, path)
			}
			n, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index in %q", domain.ErrInvalidFieldPath, path)
			}
			seg = pathSegment{name: part[:open], index: n, indexed: true}
		}
		if seg.name == "" {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFieldPath, path)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// applyField sets the value at path on r.
func applyField(r *domain.AdoptionRecord, path string, value any) error {
	segs, err := parseFieldPath(path)
	if err != nil {
		return err
	}
	head := segs[0]
	if head.name == "adoptedTexts" {
		if !head.indexed || len(segs) != 2 {
			return fmt.Errorf("%w: %q", domain.ErrInvalidFieldPath, path)
		}
		if head.index >= len(r.AdoptedTexts) {
			return fmt.Errorf("%w: no adopted text at index %d", domain.ErrInvalidFieldPath, head.index)
		}
		return applyTextField(r, head.index, segs[1], value)
	}
	if len(segs) != 1 || head.indexed {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFieldPath, path)
	}
	return applyRecordField(r, head.name, value)
}

func applyRecordField(r *domain.AdoptionRecord, name string, value any) error {
	if name == "credits" {
		n, err := asInt(value)
		if err != nil {
			return fieldValueError(name, err)
		}
		r.Credits = n
		return nil
	}
	if name == "principalTextId" {
		s, err := asString(value)
		if err != nil {
			return fieldValueError(name, err)
		}
		return r.SetPrincipal(s)
	}
	if name == "reviewState" {
		s, err := asString(value)
		if err != nil {
			return fieldValueError(name, err)
		}
		switch st := domain.ReviewState(s); st {
		case domain.ReviewStateNeedsReview, domain.ReviewStateReviewed, domain.ReviewStateApproved:
			r.ReviewState = st
			return nil
		}
		return fieldValueError(name, fmt.Errorf("unknown review state %q", s))
	}

	target := recordStringField(r, name)
	if target == nil {
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFieldPath, name)
	}
	s, err := asString(value)
	if err != nil {
		return fieldValueError(name, err)
	}
	*target = s
	if name == "degreeClass" {
		if dc, ok := domain.LookupDegreeClass(strings.TrimSpace(s)); ok {
			r.DegreeClass = dc.Code
			r.DegreeClassDescription = dc.Name
		}
	}
	return nil
}

func recordStringField(r *domain.AdoptionRecord, name string) *string {
	switch name {
	case "institution":
		return &r.Institution
	case "faculty":
		return &r.Faculty
	case "department":
		return &r.Department
	case "degreeProgram":
		return &r.DegreeProgram
	case "degreeClass":
		return &r.DegreeClass
	case "degreeClassDescription":
		return &r.DegreeClassDescription
	case "subject":
		return &r.Subject
	case "courseName":
		return &r.CourseName
	case "academicYear":
		return &r.AcademicYear
	case "semester":
		return &r.Semester
	case "sectorCode":
		return &r.SectorCode
	case "instructor":
		return &r.Instructor
	case "instructorEmail":
		return &r.InstructorEmail
	case "notes":
		return &r.Notes
	}
	return nil
}

func applyTextField(r *domain.AdoptionRecord, idx int, seg pathSegment, value any) error {
	t := &r.AdoptedTexts[idx]
	path := fmt.Sprintf("adoptedTexts[%d].%s", idx, seg.name)

	if seg.name == "authors" {
		if seg.indexed {
			if seg.index >= len(t.Authors) {
				return fmt.Errorf("%w: no author at index %d", domain.ErrInvalidFieldPath, seg.index)
			}
			s, err := asString(value)
			if err != nil {
				return fieldValueError(path, err)
			}
			t.Authors[seg.index] = s
			return nil
		}
		authors, err := asStrings(value)
		if err != nil {
			return fieldValueError(path, err)
		}
		if len(authors) == 0 {
			authors = []string{""}
		}
		t.Authors = authors
		return nil
	}
	if seg.indexed {
		return fmt.Errorf("%w: %s is not a list", domain.ErrInvalidFieldPath, path)
	}

	switch seg.name {
	case "year":
		year, err := asOptionalInt(value)
		if err != nil {
			return fieldValueError(path, err)
		}
		t.Year = year
		return nil
	case "isPrincipal":
		b, ok := value.(bool)
		if !ok {
			return fieldValueError(path, fmt.Errorf("expected a boolean"))
		}
		if b {
			return r.SetPrincipal(t.ID)
		}
		if t.IsPrincipal {
			return fieldValueError(path, fmt.Errorf("choose another principal text instead"))
		}
		return nil
	case "category":
		s, err := asString(value)
		if err != nil {
			return fieldValueError(path, err)
		}
		c := domain.TextCategory(s)
		if !domain.ValidTextCategory(c) {
			return fieldValueError(path, fmt.Errorf("unknown category %q", s))
		}
		if c == domain.TextCategoryPrincipal {
			return r.SetPrincipal(t.ID)
		}
		if t.IsPrincipal {
			return fieldValueError(path, fmt.Errorf("choose another principal text instead"))
		}
		t.Category = c
		return nil
	}

	var target *string
	switch seg.name {
	case "title":
		target = &t.Title
	case "publisher":
		target = &t.Publisher
	case "isbn":
		target = &t.ISBN
	case "edition":
		target = &t.Edition
	case "notes":
		target = &t.Notes
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFieldPath, path)
	}
	s, err := asString(value)
	if err != nil {
		return fieldValueError(path, err)
	}
	*target = s
	return nil
}

func fieldValueError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidFieldValue, path, err)
}

func asString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

func asInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("expected a whole number, got %v", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		return int(n), err
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func asOptionalInt(v any) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func asStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), x...), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, err := asString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{x}, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", v)
}
