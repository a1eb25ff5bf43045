package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
)

// MockRecordService is a mock implementation of service.RecordService.
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) List(ctx context.Context, filters dashboard.Filters) ([]domain.AdoptionRecord, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdoptionRecord), args.Error(1)
}

func (m *MockRecordService) GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdoptionRecord), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecordService) ExportJSON(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRecordService) ExportCSV(ctx context.Context, filters dashboard.Filters, w io.Writer) error {
	args := m.Called(ctx, filters, w)
	return args.Error(0)
}

func (m *MockRecordService) ExportXLSX(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]byte, error) {
	args := m.Called(ctx, filters, groupBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRecordService) Import(ctx context.Context, data []byte, mode domain.ImportMode) (int, error) {
	args := m.Called(ctx, data, mode)
	return args.Int(0), args.Error(1)
}
