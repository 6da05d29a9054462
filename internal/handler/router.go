package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"EmojiStory-App/internal/middleware"
)

// Handlers はルーターに登録するハンドラー群
type Handlers struct {
	Session   *SessionHandler
	Stories   *StoriesHandler
	Narration *NarrationHandler
	Functions *FunctionsHandler
}

// RouterConfig はルーターの設定
type RouterConfig struct {
	AllowedOrigins       []string
	EnableMetrics        bool
	GenerateRateInterval time.Duration
	GenerateRateBurst    int
}

// NewRouter はginのルーターを構築する
func NewRouter(h Handlers, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "apikey", "x-client-info"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	if cfg.EnableMetrics {
		p := ginprometheus.NewPrometheus("gin")
		p.Use(router)
	}

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "EmojiStory-App"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	generateLimit := middleware.RateLimit(cfg.GenerateRateInterval, cfg.GenerateRateBurst)

	api := router.Group("/api")
	if h.Session != nil {
		sessions := api.Group("/sessions")
		sessions.POST("", h.Session.CreateSession)
		sessions.GET("/:id", h.Session.GetSession)
		sessions.DELETE("/:id", h.Session.DeleteSession)
		sessions.POST("/:id/emojis", h.Session.AddEmoji)
		sessions.DELETE("/:id/emojis", h.Session.ClearEmojis)
		sessions.DELETE("/:id/emojis/:index", h.Session.RemoveEmoji)
		sessions.PUT("/:id/slots/:index", h.Session.SetSlot)
		sessions.POST("/:id/generate", generateLimit, h.Session.Generate)
		sessions.GET("/:id/cover", h.Session.GetCover)
	}
	if h.Stories != nil {
		api.GET("/stories", h.Stories.ListStories)
		api.GET("/stories/:id", h.Stories.GetStory)
	}
	if h.Narration != nil {
		api.POST("/stories/:id/narration", h.Narration.ToggleNarration)
		api.GET("/narration", h.Narration.GetNarration)
		api.DELETE("/narration", h.Narration.StopNarration)
	}
	if h.Functions != nil {
		functions := router.Group("/functions/v1")
		functions.POST("/generate-story", generateLimit, h.Functions.GenerateStory)
		functions.POST("/generate-image", generateLimit, h.Functions.GenerateImage)
	}

	return router
}
