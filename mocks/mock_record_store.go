package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/domain"
)

// MockRecordStore is a mock implementation of port.RecordStore.
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Upsert(ctx context.Context, record *domain.AdoptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordStore) GetAll(ctx context.Context) ([]domain.AdoptionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdoptionRecord), args.Error(1)
}

func (m *MockRecordStore) GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdoptionRecord), args.Error(1)
}

func (m *MockRecordStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecordStore) ExportJSON(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRecordStore) ImportJSON(ctx context.Context, data []byte, mode domain.ImportMode) (int, error) {
	args := m.Called(ctx, data, mode)
	return args.Int(0), args.Error(1)
}
