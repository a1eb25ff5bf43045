package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/domain"
	"adoptions/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) EnqueueFiles(ctx context.Context, files []service.UploadFile) []domain.QueueItem {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.QueueItem)
}

func (m *MockUploadService) EnqueueText(ctx context.Context, name, text string) domain.QueueItem {
	args := m.Called(ctx, name, text)
	return args.Get(0).(domain.QueueItem)
}
