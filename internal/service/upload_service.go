package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adoptions/internal/config"
	"adoptions/internal/domain"
	"adoptions/internal/extract"
	"adoptions/internal/port"
)

// Enqueuer accepts new work for the processing queue.
type Enqueuer interface {
	Enqueue(sources []domain.Source) []domain.QueueItem
}

// UploadFile is one uploaded document.
type UploadFile struct {
	FileName string
	Data     []byte
}

// UploadService turns uploads and pasted text into queue items, archiving
// accepted files to object storage when it is configured.
type UploadService interface {
	EnqueueFiles(ctx context.Context, files []UploadFile) []domain.QueueItem
	EnqueueText(ctx context.Context, name, text string) domain.QueueItem
}

type uploadService struct {
	queue       Enqueuer
	storage     port.ObjectStorage
	s3          *config.S3Config
	maxFileSize int64
	logger      *zap.Logger
}

// NewUploadService creates an UploadService. A nil storage disables archiving.
func NewUploadService(queue Enqueuer, storage port.ObjectStorage, s3 *config.S3Config, maxFileSize int64, logger *zap.Logger) UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &uploadService{
		queue:       queue,
		storage:     storage,
		s3:          s3,
		maxFileSize: maxFileSize,
		logger:      logger.Named("upload"),
	}
}

func (s *uploadService) EnqueueFiles(ctx context.Context, files []UploadFile) []domain.QueueItem {
	sources := make([]domain.Source, 0, len(files))
	for _, f := range files {
		src := domain.Source{Kind: domain.SourceKindFile, FileName: f.FileName, Data: f.Data, Size: int64(len(f.Data))}
		if contentType, err := extract.Precheck(f.FileName, f.Data, s.maxFileSize); err == nil {
			src.ContentType = contentType
			src.ObjectKey = s.archive(ctx, f, contentType)
		}
		sources = append(sources, src)
	}
	return s.queue.Enqueue(sources)
}

func (s *uploadService) EnqueueText(_ context.Context, name, text string) domain.QueueItem {
	name = strings.TrimSpace(name)
	if name != "" && !strings.Contains(name, ".") {
		name += ".txt"
	}
	return s.queue.Enqueue([]domain.Source{{Kind: domain.SourceKindText, FileName: name, Text: text}})[0]
}

// archive uploads f and returns its object key, or "" when archiving is
// disabled or fails. Failures never block queueing.
func (s *uploadService) archive(ctx context.Context, f UploadFile, contentType string) string {
	if s.storage == nil || s.s3 == nil || !s.s3.Enabled() {
		return ""
	}
	key := fmt.Sprintf("uploads/%s/%s", uuid.New(), f.FileName)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3.Bucket,
		Key:         key,
		Body:        bytes.NewReader(f.Data),
		ContentType: contentType,
		Size:        int64(len(f.Data)),
	})
	if err != nil {
		s.logger.Warn("archiving upload failed", zap.String("file_name", f.FileName), zap.Error(err))
		return ""
	}
	return key
}
