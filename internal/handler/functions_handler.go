package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// ImageURLGenerator はタイトルから生成画像のURLを返す
type ImageURLGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// FunctionsHandler ブラウザ向けの中継エンドポイント（APIキーをサーバー側に保持する）
type FunctionsHandler struct {
	storyRepo repository.StoryGenerationRepository
	images    ImageURLGenerator
	logger    *zap.Logger
}

// NewFunctionsHandler FunctionsHandlerの新しいインスタンスを作成
// imagesがnilの場合、generate-imageは400を返す
func NewFunctionsHandler(storyRepo repository.StoryGenerationRepository, images ImageURLGenerator, logger *zap.Logger) *FunctionsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FunctionsHandler{
		storyRepo: storyRepo,
		images:    images,
		logger:    logger.Named("functions"),
	}
}

type generateStoryFunctionRequest struct {
	Emojis []string `json:"emojis"`
}

type generateImageFunctionRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateStory POST /functions/v1/generate-story - 絵文字から{title, content}を生成
func (h *FunctionsHandler) GenerateStory(c *gin.Context) {
	var req generateStoryFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	emojis := model.FilledEmojis(req.Emojis)
	if len(emojis) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emojis are required"})
		return
	}

	story, err := h.storyRepo.GenerateStory(c.Request.Context(), emojis)
	if err != nil {
		h.logger.Error("❌ generate-storyに失敗", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, story)
}

// GenerateImage POST /functions/v1/generate-image - タイトルから画像URLを生成
func (h *FunctionsHandler) GenerateImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image generation is not configured"})
		return
	}
	var req generateImageFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	url, err := h.images.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("❌ generate-imageに失敗", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
