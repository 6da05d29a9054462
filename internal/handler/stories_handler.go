package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/usecase"
)

// StoriesHandler 保存済みの物語に関するHTTPハンドラー
type StoriesHandler struct {
	browsing usecase.StoryBrowsingUseCase
}

// NewStoriesHandler StoriesHandlerの新しいインスタンスを作成
func NewStoriesHandler(browsing usecase.StoryBrowsingUseCase) *StoriesHandler {
	return &StoriesHandler{
		browsing: browsing,
	}
}

// ListStories GET /api/stories - 物語一覧（新しい順）
func (h *StoriesHandler) ListStories(c *gin.Context) {
	stories, err := h.browsing.ListStories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to load stories")
		return
	}
	if stories == nil {
		stories = []model.StoryRecord{}
	}
	c.JSON(http.StatusOK, model.GetStoriesResponse{Stories: stories})
}

// GetStory GET /api/stories/:id - 物語の詳細
func (h *StoriesHandler) GetStory(c *gin.Context) {
	story, err := h.browsing.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			respondError(c, http.StatusNotFound, "not_found", model.MessageStoryNotFound)
			return
		}
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to load story")
		return
	}
	c.JSON(http.StatusOK, story)
}
