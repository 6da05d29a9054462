package handler

import (
	"github.com/gin-gonic/gin"
)

// respondError は共通形式のエラーレスポンスを返す
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}
