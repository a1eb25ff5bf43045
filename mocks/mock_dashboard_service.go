package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
)

// MockDashboardService is a mock implementation of service.DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Groups(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]dashboard.Group, error) {
	args := m.Called(ctx, filters, groupBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dashboard.Group), args.Error(1)
}

func (m *MockDashboardService) Stats(ctx context.Context, filters dashboard.Filters, highlight string) (dashboard.Stats, error) {
	args := m.Called(ctx, filters, highlight)
	return args.Get(0).(dashboard.Stats), args.Error(1)
}

func (m *MockDashboardService) Options(ctx context.Context) (dashboard.Options, error) {
	args := m.Called(ctx)
	return args.Get(0).(dashboard.Options), args.Error(1)
}

func (m *MockDashboardService) Preferences(ctx context.Context) (domain.DashboardPreferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardPreferences), args.Error(1)
}

func (m *MockDashboardService) SavePreferences(ctx context.Context, prefs domain.DashboardPreferences) (domain.DashboardPreferences, error) {
	args := m.Called(ctx, prefs)
	return args.Get(0).(domain.DashboardPreferences), args.Error(1)
}
