package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adoptions/internal/config"
	"adoptions/internal/domain"
	"adoptions/internal/port"
)

// Analyzer implements port.Analyzer. Operator credentials select a provider
// per call; without them the configured fallback chain is used.
type Analyzer struct {
	cfg       config.ParserConfig
	fallback  port.DocumentParser
	newParser func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyzer creates an Analyzer. fallback may be nil.
func NewAnalyzer(cfg config.ParserConfig, fallback port.DocumentParser, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:       cfg,
		fallback:  fallback,
		newParser: NewParser,
		logger:    logger.Named("analyzer"),
		now:       time.Now,
	}
}

// WithParserFactory replaces the provider constructor (for testing).
func (a *Analyzer) WithParserFactory(f func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)) *Analyzer {
	a.newParser = f
	return a
}

// HasFallback reports whether server-side providers are configured.
func (a *Analyzer) HasFallback() bool {
	return a.fallback != nil
}

func (a *Analyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*domain.AdoptionRecord, error) {
	p, provider, err := a.resolve(input.Credentials)
	if err != nil {
		return nil, Classify(provider, err)
	}

	started := a.now()
	out, err := p.Parse(ctx, port.ParseInput{Text: input.Text, FileName: input.FileName})
	if err != nil {
		return nil, Classify(provider, err)
	}

	record, err := a.normalize(out.StructuredData, input.FileName)
	if err != nil {
		return nil, Classify(provider, &MalformedResponseError{Provider: provider, Err: err})
	}

	a.logger.Info("syllabus analyzed",
		zap.String("file", input.FileName),
		zap.String("model", out.ModelUsed),
		zap.Int("texts", len(record.AdoptedTexts)),
		zap.Duration("elapsed", a.now().Sub(started)),
	)
	return record, nil
}

func (a *Analyzer) resolve(creds domain.Credentials) (port.DocumentParser, string, error) {
	if creds.Configured() {
		provider := creds.Provider
		if provider == "" {
			provider = a.cfg.DefaultProvider
		}
		model := creds.Model
		if model == "" {
			model = a.cfg.DefaultModel
		}
		p, err := a.newParser(&config.ParserProviderConfig{
			Provider:     provider,
			APIKey:       creds.APIKey,
			DefaultModel: model,
			TimeoutSecs:  a.cfg.TimeoutSecs,
			Temperature:  0.1,
			MaxTokens:    2000,
		})
		if err != nil {
			return nil, provider, err
		}
		return p, provider, nil
	}
	if a.fallback != nil {
		return a.fallback, "fallback", nil
	}
	return nil, "", domain.ErrNotConfigured
}

func (a *Analyzer) normalize(raw json.RawMessage, fileName string) (*domain.AdoptionRecord, error) {
	clean, touched, err := SanitizeRecordJSON(raw)
	if err != nil {
		return nil, err
	}
	if len(touched) > 0 {
		a.logger.Debug("sanitized model output", zap.Strings("fields", touched))
	}
	if err := ValidateRecordJSON(clean); err != nil {
		return nil, err
	}

	var record domain.AdoptionRecord
	if err := json.Unmarshal(clean, &record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	record.ID = uuid.New().String()
	record.Timestamp = a.now().UnixMilli()
	record.FileName = fileName
	record.ReviewState = domain.ReviewStateNeedsReview
	if record.DegreeClassDescription == "" {
		if dc, ok := domain.LookupDegreeClass(record.DegreeClass); ok {
			record.DegreeClassDescription = dc.Name
		}
	}

	for i := range record.AdoptedTexts {
		t := &record.AdoptedTexts[i]
		t.ID = uuid.New().String()
		t.IsPrincipal = false
		if !domain.ValidTextCategory(t.Category) {
			t.Category = domain.TextCategoryRecommended
		}
	}
	// The first listed text is the principal one.
	if len(record.AdoptedTexts) > 0 {
		_ = record.SetPrincipal(record.AdoptedTexts[0].ID)
	}
	return &record, nil
}
