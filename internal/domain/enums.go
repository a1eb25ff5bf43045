package domain

// FileType represents the document types accepted by the processing queue.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeTXT FileType = "txt"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"text/plain":      FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
	"txt": FileTypeTXT,
}

// ContentTypeFor returns the canonical MIME type for a FileType.
func ContentTypeFor(ft FileType) string {
	switch ft {
	case FileTypePDF:
		return "application/pdf"
	case FileTypeTXT:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// SourceKind distinguishes uploaded documents from pasted text.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindText SourceKind = "text"
)

// QueueStatus is the lifecycle state of a queue item.
type QueueStatus string

const (
	QueueStatusPending   QueueStatus = "pending"
	QueueStatusAnalyzing QueueStatus = "analyzing"
	QueueStatusReviewing QueueStatus = "reviewing"
	QueueStatusCompleted QueueStatus = "completed"
	QueueStatusError     QueueStatus = "error"
)

// Terminal reports whether the status is removed by RemoveCompleted.
func (s QueueStatus) Terminal() bool {
	return s == QueueStatusCompleted || s == QueueStatusError
}

// Progress checkpoints reported while an item is analyzing.
const (
	ProgressStarted   = 10
	ProgressExtracted = 40
	ProgressAnalyzed  = 90
	ProgressDone      = 100
)

// TextCategory classifies an adopted text.
type TextCategory string

const (
	TextCategoryPrincipal   TextCategory = "principal"
	TextCategoryRecommended TextCategory = "recommended"
	TextCategoryReference   TextCategory = "reference"
)

// ValidTextCategory reports whether c is a known category.
func ValidTextCategory(c TextCategory) bool {
	switch c {
	case TextCategoryPrincipal, TextCategoryRecommended, TextCategoryReference:
		return true
	}
	return false
}

// ReviewState tracks human review of an adoption record.
type ReviewState string

const (
	ReviewStateNeedsReview ReviewState = "needs_review"
	ReviewStateReviewed    ReviewState = "reviewed"
	ReviewStateApproved    ReviewState = "approved"
)

// View names the screen an operator should be routed to after a review action.
type View string

const (
	ViewReview    View = "review"
	ViewDashboard View = "dashboard"
	ViewSettings  View = "settings"
)

// ImportMode selects how imported records combine with stored ones.
type ImportMode string

const (
	ImportModeAppend    ImportMode = "append"
	ImportModeOverwrite ImportMode = "overwrite"
)

// GroupBy selects the sort criterion for dashboard groups.
type GroupBy string

const (
	GroupBySubject     GroupBy = "subject"
	GroupByInstitution GroupBy = "institution"
	GroupByProgram     GroupBy = "program"
	GroupByInstructor  GroupBy = "instructor"
)

// ParseGroupBy converts a string into a GroupBy, defaulting to subject.
func ParseGroupBy(s string) GroupBy {
	switch GroupBy(s) {
	case GroupByInstitution, GroupByProgram, GroupByInstructor:
		return GroupBy(s)
	default:
		return GroupBySubject
	}
}
