package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, input port.ExtractInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}
