package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/domain"
	"adoptions/internal/service"
)

// MockSettingsService is a mock implementation of service.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, input service.UpdateSettingsInput) (*domain.Settings, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Providers() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockSettingsService) Credentials(ctx context.Context) (domain.Credentials, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Credentials), args.Error(1)
}
