package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// Insert provides a mock function with given fields: ctx, story
func (_m *MockStoryRepository) Insert(ctx context.Context, story *model.StoryInsert) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

// List provides a mock function with given fields: ctx
func (_m *MockStoryRepository) List(ctx context.Context) ([]model.StoryRecord, error) {
	ret := _m.Called(ctx)

	var r0 []model.StoryRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.StoryRecord)
	}

	return r0, ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockStoryRepository) GetByID(ctx context.Context, id string) (*model.StoryRecord, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.StoryRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StoryRecord)
	}

	return r0, ret.Error(1)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)

// MockCoverStorage is a mock type for the CoverStorage type
type MockCoverStorage struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, path, data, opts
func (_m *MockCoverStorage) Upload(ctx context.Context, path string, data []byte, opts model.UploadOptions) (string, error) {
	ret := _m.Called(ctx, path, data, opts)
	return ret.String(0), ret.Error(1)
}

// PublicURL provides a mock function with given fields: path
func (_m *MockCoverStorage) PublicURL(path string) string {
	ret := _m.Called(path)
	return ret.String(0)
}

// NewMockCoverStorage creates a new instance of MockCoverStorage.
func NewMockCoverStorage(t interface {
	mock.TestingT
	Helper()
}) *MockCoverStorage {
	m := &MockCoverStorage{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.CoverStorage = (*MockCoverStorage)(nil)

// MockCoverFetcher is a mock type for the CoverFetcher type
type MockCoverFetcher struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, url
func (_m *MockCoverFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	ret := _m.Called(ctx, url)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.String(1), ret.Error(2)
}

// NewMockCoverFetcher creates a new instance of MockCoverFetcher.
func NewMockCoverFetcher(t interface {
	mock.TestingT
	Helper()
}) *MockCoverFetcher {
	m := &MockCoverFetcher{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.CoverFetcher = (*MockCoverFetcher)(nil)
