package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"adoptions/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the export header row.
var Columns = []string{
	"Record ID",
	"Institution",
	"Degree Class",
	"Degree Program",
	"Subject",
	"Course Name",
	"Instructor",
	"Academic Year",
	"Credits",
	"Title",
	"Authors",
	"Publisher",
	"Year",
	"ISBN",
	"Category",
	"Principal",
}

// Writer wraps csv.Writer for exporting adoption records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 byte order mark. Call it before any row.
func WriteBOM(w io.Writer) error {
	_, err := w.Write(BOM)
	return err
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteRecords writes one row per adopted text.
func (w *Writer) WriteRecords(records []domain.AdoptionRecord) error {
	for i := range records {
		for _, row := range RecordRows(&records[i]) {
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// RecordRows converts a record to one row per adopted text. A record without
// texts yields a single row with the text columns left empty.
func RecordRows(r *domain.AdoptionRecord) [][]string {
	base := []string{
		r.ID,
		r.Institution,
		degreeClassLabel(r),
		r.DegreeProgram,
		r.Subject,
		r.CourseName,
		r.Instructor,
		r.AcademicYear,
		formatCredits(r.Credits),
	}

	if len(r.AdoptedTexts) == 0 {
		row := make([]string, len(Columns))
		copy(row, base)
		return [][]string{row}
	}
	rows := make([][]string, 0, len(r.AdoptedTexts))
	for _, t := range r.AdoptedTexts {
		row := make([]string, 0, len(Columns))
		row = append(row, base...)
		row = append(row,
			t.Title,
			strings.Join(nonBlank(t.Authors), "; "),
			t.Publisher,
			formatYear(t.Year),
			t.ISBN,
			string(t.Category),
			formatBool(t.IsPrincipal),
		)
		rows = append(rows, row)
	}
	return rows
}

func degreeClassLabel(r *domain.AdoptionRecord) string {
	if r.DegreeClassDescription == "" {
		return r.DegreeClass
	}
	return r.DegreeClass + " - " + r.DegreeClassDescription
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatCredits(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_prefix}_{YYYY-MM-DD}.{ext}
func BuildFilename(prefix, ext string) string {
	sanitized := SanitizeFilename(prefix)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
