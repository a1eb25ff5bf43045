package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"adoptions/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// Meta holds list metadata.
type Meta struct {
	Total int `json:"total"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondList sends a 200 success response with the item count.
func RespondList(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &Meta{Total: total}})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		ve *domain.ValidationError
		pe *domain.PersistenceError
		ie *domain.InferenceError
		ee *domain.ExtractionError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", "required fields are missing"
	case errors.As(err, &pe):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED", "saving failed; the record was not stored"
	case errors.As(err, &ie):
		switch ie.Kind {
		case domain.InferenceNotConfigured:
			return http.StatusPreconditionFailed, "NOT_CONFIGURED", ie.Error()
		case domain.InferenceUnauthorized:
			return http.StatusBadGateway, "INFERENCE_UNAUTHORIZED", ie.Error()
		case domain.InferenceRateLimited:
			return http.StatusTooManyRequests, "INFERENCE_RATE_LIMITED", ie.Error()
		default:
			return http.StatusBadGateway, "INFERENCE_FAILED", ie.Error()
		}
	case errors.As(err, &ee):
		return http.StatusUnprocessableEntity, "EXTRACTION_FAILED", ee.Error()
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "RECORD_NOT_FOUND", "adoption record not found"
	case errors.Is(err, domain.ErrQueueItemNotFound):
		return http.StatusNotFound, "QUEUE_ITEM_NOT_FOUND", "queue item not found"
	case errors.Is(err, domain.ErrTextEntryNotFound):
		return http.StatusNotFound, "TEXT_NOT_FOUND", "text entry not found"
	case errors.Is(err, domain.ErrNoActiveReview):
		return http.StatusNotFound, "NO_ACTIVE_REVIEW", "no record is being reviewed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrItemNotReviewable):
		return http.StatusConflict, "ITEM_NOT_REVIEWABLE", "queue item is not awaiting review"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, txt"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest, "EMPTY_DOCUMENT", "document is empty"
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusPreconditionFailed, "NOT_CONFIGURED", "inference API key is not configured: set it in settings"
	case errors.Is(err, domain.ErrInvalidImport):
		return http.StatusBadRequest, "INVALID_IMPORT", err.Error()
	case errors.Is(err, domain.ErrInvalidImportMode):
		return http.StatusBadRequest, "INVALID_IMPORT_MODE", "import mode must be append or overwrite"
	case errors.Is(err, domain.ErrInvalidFieldPath):
		return http.StatusBadRequest, "INVALID_FIELD_PATH", err.Error()
	case errors.Is(err, domain.ErrInvalidFieldValue):
		return http.StatusBadRequest, "INVALID_FIELD_VALUE", err.Error()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "STORAGE_DISABLED", "object storage is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server errors are attached to the context for the request logger.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	apiErr := &APIError{Code: code, Message: msg}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		apiErr.Fields = ve.Fields
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}
