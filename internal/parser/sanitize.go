package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reFence  = regexp.MustCompile("```(?:json)?\\s*")
	reDigits = regexp.MustCompile(`\d+`)
)

var categorySynonyms = map[string]string{
	"principal":   "principal",
	"principale":  "principal",
	"main":        "principal",
	"recommended": "recommended",
	"consigliato": "recommended",
	"suggested":   "recommended",
	"reference":   "reference",
	"riferimento": "reference",
}

var stringFields = []string{
	"institution", "faculty", "department", "degreeProgram", "degreeClass",
	"degreeClassDescription", "subject", "courseName", "academicYear", "semester",
	"sectorCode", "instructor", "instructorEmail", "notes",
}

// StripCodeFences removes markdown code fences and any prose around the
// outermost JSON object.
func StripCodeFences(content string) string {
	s := strings.TrimSpace(reFence.ReplaceAllString(content, ""))
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// SanitizeRecordJSON coerces loosely typed model output into the record shape:
// numbers given as strings, authors given as one string, Italian category
// names and nulls. It returns the rewritten JSON and the list of touched keys.
func SanitizeRecordJSON(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, errors.New("sanitize: not a JSON object")
	}

	var touched []string

	for _, k := range stringFields {
		switch v := m[k].(type) {
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				touched = append(touched, k+"(null)")
			}
		case string:
			m[k] = strings.TrimSpace(v)
		case float64:
			m[k] = strconv.FormatFloat(v, 'f', -1, 64)
			touched = append(touched, k+"(number)")
		default:
			delete(m, k)
			touched = append(touched, k+"(type)")
		}
	}

	if v, ok := m["credits"]; ok {
		if n, ok := coerceInt(v); ok {
			m["credits"] = n
		} else {
			m["credits"] = 0
			touched = append(touched, "credits")
		}
	}

	texts, _ := m["adoptedTexts"].([]any)
	if m["adoptedTexts"] == nil {
		texts = []any{}
	}
	cleaned := make([]any, 0, len(texts))
	for i, t := range texts {
		entry, ok := t.(map[string]any)
		if !ok {
			touched = append(touched, fmt.Sprintf("adoptedTexts[%d](type)", i))
			continue
		}
		touched = append(touched, sanitizeText(entry, i)...)
		cleaned = append(cleaned, entry)
	}
	m["adoptedTexts"] = cleaned

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	return b, touched, nil
}

func sanitizeText(entry map[string]any, idx int) []string {
	var touched []string
	prefix := fmt.Sprintf("adoptedTexts[%d].", idx)

	for _, k := range []string{"title", "publisher", "isbn", "edition", "notes"} {
		switch v := entry[k].(type) {
		case string:
			entry[k] = strings.TrimSpace(v)
		case float64:
			entry[k] = strconv.FormatFloat(v, 'f', -1, 64)
			touched = append(touched, prefix+k)
		case nil:
			delete(entry, k)
		default:
			delete(entry, k)
			touched = append(touched, prefix+k)
		}
	}
	if _, ok := entry["title"]; !ok {
		entry["title"] = ""
	}

	switch v := entry["authors"].(type) {
	case string:
		entry["authors"] = splitAuthors(v)
		touched = append(touched, prefix+"authors")
	case []any:
		authors := make([]any, 0, len(v))
		for _, a := range v {
			if s, ok := a.(string); ok {
				authors = append(authors, strings.TrimSpace(s))
			}
		}
		if len(authors) == 0 {
			authors = append(authors, "")
		}
		entry["authors"] = authors
	default:
		entry["authors"] = []any{""}
		touched = append(touched, prefix+"authors")
	}

	if v, ok := entry["year"]; ok {
		if n, ok := coerceInt(v); ok && n > 0 {
			entry["year"] = n
		} else {
			delete(entry, "year")
			touched = append(touched, prefix+"year")
		}
	}

	if c, ok := entry["category"].(string); ok {
		if norm, known := categorySynonyms[strings.ToLower(strings.TrimSpace(c))]; known {
			entry["category"] = norm
		} else {
			entry["category"] = "recommended"
			touched = append(touched, prefix+"category")
		}
	} else {
		entry["category"] = "recommended"
	}

	if _, ok := entry["isPrincipal"].(bool); !ok {
		entry["isPrincipal"] = false
	}
	return touched
}

func splitAuthors(s string) []any {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t)), true
	case string:
		d := reDigits.FindString(t)
		if d == "" {
			return 0, false
		}
		n, err := strconv.Atoi(d)
		return n, err == nil
	default:
		return 0, false
	}
}

// ExtractJSON strips fences from a model reply and checks that what remains
// is a JSON object.
func ExtractJSON(provider, content string) (json.RawMessage, error) {
	s := StripCodeFences(content)
	if s == "" {
		return nil, &MalformedResponseError{Provider: provider, Err: errors.New("empty content")}
	}
	if !json.Valid([]byte(s)) || !strings.HasPrefix(s, "{") {
		return nil, &MalformedResponseError{
			Provider: provider,
			Err:      fmt.Errorf("content is not a JSON object (raw: %s)", truncate(content, 500)),
		}
	}
	return json.RawMessage(s), nil
}
