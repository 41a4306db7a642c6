package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myevertour/guide-server-go/internal/config"
)

// HealthResponse 는 상태 확인 응답이다.
type HealthResponse struct {
	Status          string `json:"status"`
	Model           string `json:"model"`
	CaptureStrategy string `json:"capture_strategy"`
}

// RegisterHealthRoutes 는 상태 확인 라우트를 등록한다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness 는 외부 의존성 상태와 무관하게 얕게 유지한다.
		c.JSON(http.StatusOK, HealthResponse{
			Status:          "ok",
			Model:           cfg.Gemini.Model,
			CaptureStrategy: string(cfg.Capture.Strategy),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		if cfg.Gemini.PrimaryKey() == "" {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:          "missing_api_key",
				Model:           cfg.Gemini.Model,
				CaptureStrategy: string(cfg.Capture.Strategy),
			})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{
			Status:          "ok",
			Model:           cfg.Gemini.Model,
			CaptureStrategy: string(cfg.Capture.Strategy),
		})
	})
}
