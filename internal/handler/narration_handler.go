package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/service"
	"EmojiStory-App/internal/usecase"
)

// NarrationHandler 物語の読み上げに関するHTTPハンドラー
type NarrationHandler struct {
	narration service.NarrationService
	browsing  usecase.StoryBrowsingUseCase
}

// NewNarrationHandler NarrationHandlerの新しいインスタンスを作成
func NewNarrationHandler(narration service.NarrationService, browsing usecase.StoryBrowsingUseCase) *NarrationHandler {
	return &NarrationHandler{
		narration: narration,
		browsing:  browsing,
	}
}

// ToggleNarration POST /api/stories/:id/narration - 読み上げの開始・停止を切り替え
func (h *NarrationHandler) ToggleNarration(c *gin.Context) {
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
	c.JSON(http.StatusOK, h.narration.Toggle(story))
}

// GetNarration GET /api/narration - 読み上げ状態
func (h *NarrationHandler) GetNarration(c *gin.Context) {
	c.JSON(http.StatusOK, h.narration.Status())
}

// StopNarration DELETE /api/narration - 読み上げを停止
func (h *NarrationHandler) StopNarration(c *gin.Context) {
	c.JSON(http.StatusOK, h.narration.Stop())
}
