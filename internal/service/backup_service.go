package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"adoptions/internal/config"
	"adoptions/internal/metrics"
	"adoptions/internal/port"
)

const backupTimeLayout = "20060102T150405Z"

// BackupService exports the record store to object storage and prunes old
// exports.
type BackupService struct {
	store   port.RecordStore
	storage port.ObjectStorage
	bucket  string
	cfg     config.BackupConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewBackupService creates a BackupService writing to bucket.
func NewBackupService(store port.RecordStore, storage port.ObjectStorage, bucket string, cfg config.BackupConfig, m *metrics.Metrics, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Keep < 1 {
		cfg.Keep = 1
	}
	return &BackupService{
		store:   store,
		storage: storage,
		bucket:  bucket,
		cfg:     cfg,
		metrics: m,
		logger:  logger.Named("backup"),
		now:     time.Now,
	}
}

// WithClock overrides the time source used to name exports.
func (s *BackupService) WithClock(now func() time.Time) *BackupService {
	s.now = now
	return s
}

// Run uploads one export and removes exports beyond the retention count. It
// returns the key of the new export.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	key, err := s.run(ctx)
	s.metrics.Backup(err)
	if err != nil {
		s.logger.Error("backup failed", zap.Error(err))
		return "", err
	}
	s.logger.Info("backup written", zap.String("key", key))
	return key, nil
}

func (s *BackupService) run(ctx context.Context) (string, error) {
	data, err := s.store.ExportJSON(ctx)
	if err != nil {
		return "", fmt.Errorf("exporting records: %w", err)
	}
	key := s.cfg.Prefix + "records-" + s.now().UTC().Format(backupTimeLayout) + ".json"
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
	}); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	if err := s.prune(ctx); err != nil {
		s.logger.Warn("backup rotation failed", zap.Error(err))
	}
	return key, nil
}

func (s *BackupService) prune(ctx context.Context) error {
	objects, err := s.storage.List(ctx, s.bucket, s.cfg.Prefix)
	if err != nil {
		return err
	}
	var keys []string
	for _, o := range objects {
		name := path.Base(o.Key)
		if strings.HasPrefix(name, "records-") && strings.HasSuffix(name, ".json") {
			keys = append(keys, o.Key)
		}
	}
	if len(keys) <= s.cfg.Keep {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	for _, key := range keys[s.cfg.Keep:] {
		if err := s.storage.Delete(ctx, s.bucket, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		s.logger.Debug("old backup removed", zap.String("key", key))
	}
	return nil
}

// Schedule registers Run on c using the configured cron expression.
func (s *BackupService) Schedule(ctx context.Context, c *cron.Cron) (cron.EntryID, error) {
	return c.AddFunc(s.cfg.Schedule, func() {
		_, _ = s.Run(ctx)
	})
}
