package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrRecordNotFound      = errors.New("adoption record not found")
	ErrQueueItemNotFound   = errors.New("queue item not found")
	ErrTextEntryNotFound   = errors.New("text entry not found")
	ErrItemNotReviewable   = errors.New("queue item is not awaiting review")
	ErrNoActiveReview      = errors.New("no record is being reviewed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument       = errors.New("document is empty")
	ErrNotConfigured       = errors.New("inference API key is not configured")
	ErrInvalidImport       = errors.New("import data must be a JSON array of records")
	ErrInvalidImportMode   = errors.New("import mode must be append or overwrite")
	ErrInvalidFieldPath    = errors.New("invalid field path")
	ErrInvalidFieldValue   = errors.New("invalid field value")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrStorageDisabled     = errors.New("object storage is not configured")
)

// FieldError describes one failed required-field check.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is returned when a record is missing required fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ExtractionError wraps a failure to turn a document into text.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %s: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InferenceErrorKind classifies inference failures.
type InferenceErrorKind string

const (
	InferenceUnauthorized      InferenceErrorKind = "unauthorized"
	InferenceRateLimited       InferenceErrorKind = "rate_limited"
	InferenceMalformedResponse InferenceErrorKind = "malformed_response"
	InferenceNotConfigured     InferenceErrorKind = "not_configured"
	InferenceUnknown           InferenceErrorKind = "unknown"
)

// InferenceError is a classified failure from the inference adapter.
type InferenceError struct {
	Kind       InferenceErrorKind
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *InferenceError) Error() string {
	switch e.Kind {
	case InferenceUnauthorized:
		return fmt.Sprintf("invalid or unauthorized API key for %s: check the API key in settings", e.Provider)
	case InferenceNotConfigured:
		return "inference API key is not configured: set it in settings"
	case InferenceRateLimited:
		return fmt.Sprintf("%s rate limit reached, retry after %s", e.Provider, e.RetryAfter)
	case InferenceMalformedResponse:
		return fmt.Sprintf("%s returned a malformed response: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("inference failed: %v", e.Err)
	}
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// IsInferenceKind reports whether err is an InferenceError of the given kind.
func IsInferenceKind(err error, kind InferenceErrorKind) bool {
	var ie *InferenceError
	return errors.As(err, &ie) && ie.Kind == kind
}

// PersistenceError wraps a record store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
