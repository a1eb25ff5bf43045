package port

import "context"

// ExtractInput describes a document to convert into plain text.
type ExtractInput struct {
	FileName    string
	ContentType string
	Data        []byte
	Text        string
}

// TextExtractor produces plain text from a document. Failures are returned as
// *domain.ExtractionError.
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (string, error)
}
