package extract

import (
	"net/http"
	"path/filepath"
	"strings"

	"adoptions/internal/domain"
)

// Precheck validates an uploaded document before it is queued and returns its
// canonical content type.
func Precheck(fileName string, data []byte, maxBytes int64) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if len(data) == 0 {
		return "", domain.ErrEmptyDocument
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, _, _ := strings.Cut(http.DetectContentType(head), ";")
	detectedType, ok := domain.AllowedContentTypes[detected]
	if !ok || detectedType != fileType {
		return "", domain.ErrUnsupportedFileType
	}
	return domain.ContentTypeFor(fileType), nil
}
