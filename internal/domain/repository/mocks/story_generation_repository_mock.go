package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// MockStoryGenerationRepository is a mock type for the StoryGenerationRepository type
type MockStoryGenerationRepository struct {
	mock.Mock
}

// GenerateStory provides a mock function with given fields: ctx, emojis
func (_m *MockStoryGenerationRepository) GenerateStory(ctx context.Context, emojis []string) (*model.StoryText, error) {
	ret := _m.Called(ctx, emojis)

	var r0 *model.StoryText
	if rf, ok := ret.Get(0).(func(context.Context, []string) *model.StoryText); ok {
		r0 = rf(ctx, emojis)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StoryText)
	}

	return r0, ret.Error(1)
}

// NewMockStoryGenerationRepository creates a new instance of MockStoryGenerationRepository.
func NewMockStoryGenerationRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryGenerationRepository {
	m := &MockStoryGenerationRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryGenerationRepository = (*MockStoryGenerationRepository)(nil)

// MockCoverImageRepository is a mock type for the CoverImageRepository type
type MockCoverImageRepository struct {
	mock.Mock
}

// GenerateCover provides a mock function with given fields: ctx, title, openingLine
func (_m *MockCoverImageRepository) GenerateCover(ctx context.Context, title, openingLine string) (*model.Cover, error) {
	ret := _m.Called(ctx, title, openingLine)

	var r0 *model.Cover
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Cover)
	}

	return r0, ret.Error(1)
}

// NewMockCoverImageRepository creates a new instance of MockCoverImageRepository.
func NewMockCoverImageRepository(t interface {
	mock.TestingT
	Helper()
}) *MockCoverImageRepository {
	m := &MockCoverImageRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.CoverImageRepository = (*MockCoverImageRepository)(nil)
