package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/domain"
	"adoptions/internal/port"
)

// MockAnalyzer is a mock implementation of port.Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*domain.AdoptionRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdoptionRecord), args.Error(1)
}

// MockCredentialsProvider is a mock implementation of port.CredentialsProvider.
type MockCredentialsProvider struct {
	mock.Mock
}

func (m *MockCredentialsProvider) Credentials(ctx context.Context) (domain.Credentials, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Credentials), args.Error(1)
}
