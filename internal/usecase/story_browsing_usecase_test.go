package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository/mocks"
)

const storyID = "6f1c2d3e-4b5a-4c6d-8e7f-901234567890"

func TestListStories_NewestFirst(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("List", mock.Anything).Return([]model.StoryRecord{
		{ID: "a", Title: "A", CreatedAt: base},
		{ID: "c", Title: "C", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", Title: "B", CreatedAt: base.Add(time.Hour)},
	}, nil)

	uc := NewStoryBrowsingUseCase(repo, 0, zaptest.NewLogger(t))
	stories, err := uc.ListStories(context.Background())
	require.NoError(t, err)

	titles := make([]string, len(stories))
	for i, s := range stories {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"C", "B", "A"}, titles)
}

func TestListStories_Error(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	uc := NewStoryBrowsingUseCase(repo, 0, zaptest.NewLogger(t))
	_, err := uc.ListStories(context.Background())
	assert.Error(t, err)
}

func TestGetStory_NonUUIDIDReachesRepository(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	repo.On("GetByID", mock.Anything, "42").Return(&model.StoryRecord{ID: "42", Title: "Moonlit"}, nil)
	repo.On("GetByID", mock.Anything, "not-a-uuid").Return(nil, model.ErrStoryNotFound)

	uc := NewStoryBrowsingUseCase(repo, 0, zaptest.NewLogger(t))

	story, err := uc.GetStory(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Moonlit", story.Title)

	_, err = uc.GetStory(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
	repo.AssertExpectations(t)
}

func TestGetStory_FetchIgnoresCallerCancellation(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	repo.On("GetByID", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), storyID).Return(&model.StoryRecord{ID: storyID, Title: "Moonlit"}, nil)

	uc := NewStoryBrowsingUseCase(repo, time.Minute, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	story, err := uc.GetStory(ctx, storyID)
	require.NoError(t, err)
	assert.Equal(t, "Moonlit", story.Title)
}

func TestGetStory_UnknownID(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	repo.On("GetByID", mock.Anything, storyID).Return(nil, model.ErrStoryNotFound)

	uc := NewStoryBrowsingUseCase(repo, 0, zaptest.NewLogger(t))
	_, err := uc.GetStory(context.Background(), storyID)
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
}

func TestGetStory_CachesDetail(t *testing.T) {
	repo := mocks.NewMockStoryRepository(t)
	repo.On("GetByID", mock.Anything, storyID).
		Return(&model.StoryRecord{ID: storyID, Title: "Moonlit"}, nil).Once()

	uc := NewStoryBrowsingUseCase(repo, time.Minute, zaptest.NewLogger(t))
	for i := 0; i < 3; i++ {
		story, err := uc.GetStory(context.Background(), storyID)
		require.NoError(t, err)
		assert.Equal(t, "Moonlit", story.Title)
	}
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}
