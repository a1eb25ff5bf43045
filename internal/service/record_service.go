package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"adoptions/internal/csvexport"
	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/port"
	"adoptions/internal/xlsxexport"
)

// RecordService exposes persisted adoption records and their exports.
type RecordService interface {
	List(ctx context.Context, filters dashboard.Filters) ([]domain.AdoptionRecord, error)
	GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ExportJSON(ctx context.Context) ([]byte, error)
	ExportCSV(ctx context.Context, filters dashboard.Filters, w io.Writer) error
	ExportXLSX(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]byte, error)
	Import(ctx context.Context, data []byte, mode domain.ImportMode) (int, error)
}

type recordService struct {
	store  port.RecordStore
	logger *zap.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(store port.RecordStore, logger *zap.Logger) RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recordService{store: store, logger: logger.Named("records")}
}

func (s *recordService) List(ctx context.Context, filters dashboard.Filters) ([]domain.AdoptionRecord, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.Filter(records, filters), nil
}

func (s *recordService) GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error) {
	return s.store.GetByID(ctx, id)
}

func (s *recordService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", zap.String("record_id", id))
	return nil
}

func (s *recordService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("all records cleared")
	return nil
}

func (s *recordService) ExportJSON(ctx context.Context) ([]byte, error) {
	return s.store.ExportJSON(ctx)
}

func (s *recordService) ExportCSV(ctx context.Context, filters dashboard.Filters, w io.Writer) error {
	records, err := s.List(ctx, filters)
	if err != nil {
		return err
	}
	if err := csvexport.WriteBOM(w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := cw.WriteRecords(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func (s *recordService) ExportXLSX(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]byte, error) {
	records, err := s.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return xlsxexport.Build(records, groupBy)
}

func (s *recordService) Import(ctx context.Context, data []byte, mode domain.ImportMode) (int, error) {
	n, err := s.store.ImportJSON(ctx, data, mode)
	if err != nil {
		return 0, err
	}
	s.logger.Info("records imported", zap.Int("count", n), zap.String("mode", string(mode)))
	return n, nil
}
