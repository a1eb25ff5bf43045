package port

import (
	"context"

	"adoptions/internal/domain"
)

// AnalyzeInput carries extracted text and the credentials to analyze it with.
type AnalyzeInput struct {
	Text        string
	FileName    string
	Credentials domain.Credentials
}

// Analyzer turns syllabus text into a candidate adoption record. Failures are
// returned as *domain.InferenceError.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.AdoptionRecord, error)
}

// CredentialsProvider resolves the inference credentials currently in effect.
type CredentialsProvider interface {
	Credentials(ctx context.Context) (domain.Credentials, error)
}
