package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adoptions/internal/service"
	"adoptions/internal/validator"
)

// MockReviewController is a mock implementation of handler.ReviewController.
type MockReviewController struct {
	mock.Mock
}

func (m *MockReviewController) draft(args mock.Arguments) (*service.Draft, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Draft), args.Error(1)
}

func (m *MockReviewController) outcome(args mock.Arguments) (*service.Outcome, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

func (m *MockReviewController) Current() (*service.Draft, error) {
	return m.draft(m.Called())
}

func (m *MockReviewController) Present(itemID string) (*service.Draft, error) {
	return m.draft(m.Called(itemID))
}

func (m *MockReviewController) UpdateField(path string, value any) (*service.Draft, error) {
	return m.draft(m.Called(path, value))
}

func (m *MockReviewController) AddText() (*service.Draft, error) {
	return m.draft(m.Called())
}

func (m *MockReviewController) RemoveText(textID string) (*service.Draft, error) {
	return m.draft(m.Called(textID))
}

func (m *MockReviewController) MoveText(textID string, index int) (*service.Draft, error) {
	return m.draft(m.Called(textID, index))
}

func (m *MockReviewController) SetPrincipal(textID string) (*service.Draft, error) {
	return m.draft(m.Called(textID))
}

func (m *MockReviewController) AddAuthor(textID string) (*service.Draft, error) {
	return m.draft(m.Called(textID))
}

func (m *MockReviewController) RemoveAuthor(textID string, index int) (*service.Draft, error) {
	return m.draft(m.Called(textID, index))
}

func (m *MockReviewController) Validate(ctx context.Context) (validator.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(validator.Report), args.Error(1)
}

func (m *MockReviewController) Confirm(ctx context.Context) (*service.Outcome, error) {
	return m.outcome(m.Called(ctx))
}

func (m *MockReviewController) Discard(ctx context.Context) (*service.Outcome, error) {
	return m.outcome(m.Called(ctx))
}
