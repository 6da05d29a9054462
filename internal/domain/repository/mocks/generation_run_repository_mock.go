package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// MockGenerationRunRepository is a mock type for the GenerationRunRepository type
type MockGenerationRunRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, run
func (_m *MockGenerationRunRepository) Save(ctx context.Context, run *model.GenerationRun) error {
	ret := _m.Called(ctx, run)
	return ret.Error(0)
}

// NewMockGenerationRunRepository creates a new instance of MockGenerationRunRepository.
func NewMockGenerationRunRepository(t interface {
	mock.TestingT
	Helper()
}) *MockGenerationRunRepository {
	m := &MockGenerationRunRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.GenerationRunRepository = (*MockGenerationRunRepository)(nil)
