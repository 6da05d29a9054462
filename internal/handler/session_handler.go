package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"EmojiStory-App/internal/application"
	"EmojiStory-App/internal/domain/model"
)

// SessionHandler 物語生成セッションに関するHTTPハンドラー
type SessionHandler struct {
	sessionService application.SessionService
}

// NewSessionHandler SessionHandlerの新しいインスタンスを作成
func NewSessionHandler(sessionService application.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

type createSessionRequest struct {
	Mode string `json:"mode"`
}

type addEmojiRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

type setSlotRequest struct {
	Value string `json:"value"`
}

// CreateSession POST /api/sessions - セッションの作成
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	// ボディなしはピッカー方式
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON format: "+err.Error())
			return
		}
	}

	snapshot, err := h.sessionService.CreateSession(req.Mode)
	if err != nil {
		h.respondSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// GetSession GET /api/sessions/:id - セッションの状態を取得
func (h *SessionHandler) GetSession(c *gin.Context) {
	snapshot, err := h.sessionService.GetSession(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// DeleteSession DELETE /api/sessions/:id - セッションの破棄
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.DeleteSession(c.Param("id")); err != nil {
		h.respondSessionError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddEmoji POST /api/sessions/:id/emojis - ピッカーで絵文字を追加
func (h *SessionHandler) AddEmoji(c *gin.Context) {
	var req addEmojiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.AddEmoji(c.Param("id"), req.Emoji)
	if err != nil {
		h.respondSessionError(c, err, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ClearEmojis DELETE /api/sessions/:id/emojis - 選択をクリア
func (h *SessionHandler) ClearEmojis(c *gin.Context) {
	snapshot, err := h.sessionService.ClearEmojis(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RemoveEmoji DELETE /api/sessions/:id/emojis/:index - 指定位置（lastは最後）の絵文字を削除
func (h *SessionHandler) RemoveEmoji(c *gin.Context) {
	id := c.Param("id")
	indexParam := c.Param("index")

	if indexParam == "last" {
		snapshot, err := h.sessionService.RemoveLastEmoji(id)
		if err != nil {
			h.respondSessionError(c, err, snapshot)
			return
		}
		c.JSON(http.StatusOK, snapshot)
		return
	}

	index, err := strconv.Atoi(indexParam)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_parameter", "index must be an integer or 'last'")
		return
	}
	snapshot, err := h.sessionService.RemoveEmoji(id, index)
	if err != nil {
		h.respondSessionError(c, err, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SetSlot PUT /api/sessions/:id/slots/:index - 自由入力の枠を設定
func (h *SessionHandler) SetSlot(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_parameter", "index must be an integer")
		return
	}
	var req setSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.SetSlot(c.Param("id"), index, req.Value)
	if err != nil {
		h.respondSessionError(c, err, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Generate POST /api/sessions/:id/generate - 物語生成を開始（?wait=trueで完了まで待つ）
func (h *SessionHandler) Generate(c *gin.Context) {
	id := c.Param("id")
	snapshot, err := h.sessionService.Submit(c.Request.Context(), id)
	if err != nil {
		h.respondSessionError(c, err, nil)
		return
	}

	if wait, _ := strconv.ParseBool(c.Query("wait")); wait && snapshot.IsGenerating {
		snapshot, err = h.sessionService.Wait(c.Request.Context(), id)
		if err != nil {
			h.respondSessionError(c, err, nil)
			return
		}
	}

	if snapshot.ValidationMessage != "" {
		c.JSON(http.StatusUnprocessableEntity, snapshot)
		return
	}
	if snapshot.IsGenerating {
		c.JSON(http.StatusAccepted, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetCover GET /api/sessions/:id/cover - 保存前の表紙画像
func (h *SessionHandler) GetCover(c *gin.Context) {
	data, mimeType, err := h.sessionService.GetCover(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err, nil)
		return
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, data)
}

// respondSessionError はセッション操作のエラーをHTTPステータスに変換する
func (h *SessionHandler) respondSessionError(c *gin.Context, err error, snapshot *model.GenerationSnapshot) {
	status, code := http.StatusInternalServerError, "internal_error"
	message := err.Error()

	var validationErr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	case errors.Is(err, model.ErrGenerationInProgress):
		status, code = http.StatusConflict, "generation_in_progress"
		message = "A story is already being generated for this session."
	case errors.Is(err, model.ErrCoverNotAvailable):
		status, code = http.StatusNotFound, "cover_not_available"
	case errors.Is(err, model.ErrWrongSelectionMode):
		status, code = http.StatusBadRequest, "wrong_selection_mode"
	case errors.Is(err, model.ErrIndexOutOfRange):
		status, code = http.StatusBadRequest, "invalid_index"
	case errors.Is(err, model.ErrInvalidEmoji):
		status, code = http.StatusUnprocessableEntity, "invalid_emoji"
		message = "Please enter a single emoji."
	case errors.As(err, &validationErr):
		status, code = http.StatusBadRequest, "invalid_request"
		message = validationErr.Message
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}

	body := gin.H{"error": code, "message": message}
	if snapshot != nil {
		body["session"] = snapshot
	}
	c.JSON(status, body)
}
