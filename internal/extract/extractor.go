package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"adoptions/internal/config"
	"adoptions/internal/domain"
	"adoptions/internal/port"
)

// Extractor implements port.TextExtractor. PDFs go through pdftotext; plain
// text and pasted text pass through unchanged.
type Extractor struct {
	cfg    config.ExtractorConfig
	runner Runner
	logger *zap.Logger
}

var _ port.TextExtractor = (*Extractor)(nil)

// NewExtractor creates an Extractor. A nil runner uses os/exec.
func NewExtractor(cfg config.ExtractorConfig, runner Runner, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	if cfg.PDFToTextPath == "" {
		cfg.PDFToTextPath = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger.Named("extractor")}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (string, error) {
	text, err := e.extract(ctx, input)
	if err != nil {
		return "", &domain.ExtractionError{FileName: input.FileName, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &domain.ExtractionError{FileName: input.FileName, Err: errors.New("no readable text found")}
	}
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, input port.ExtractInput) (string, error) {
	if input.Text != "" {
		return input.Text, nil
	}
	switch input.ContentType {
	case "text/plain":
		if !utf8.Valid(input.Data) {
			return "", errors.New("text file is not valid UTF-8")
		}
		return string(input.Data), nil
	case "application/pdf":
		return e.pdfToText(ctx, input.Data)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, input.ContentType)
	}
}

func (e *Extractor) pdfToText(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "syllabus-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.PDFToTextPath, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("pdftotext: %s", msg)
	}

	text := string(out)
	e.logger.Debug("pdf text extracted",
		zap.Int("pages", 1+strings.Count(text, "\f")),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return strings.ReplaceAll(text, "\f", "\n"), nil
}
