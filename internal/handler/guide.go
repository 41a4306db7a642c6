package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
	"github.com/myevertour/guide-server-go/internal/guide"
)

// ComposeRequest 는 안내문 생성 요청 본문이다.
type ComposeRequest struct {
	Inputs guide.TripInputs `json:"inputs"`
	Record itinerary.Record `json:"record"`
}

// ComposeResponse 는 완성된 안내문 응답이다.
type ComposeResponse struct {
	Text     string   `json:"text"`
	Warnings []string `json:"warnings"`
}

// GuideHandler 는 안내문 생성 API 핸들러다.
type GuideHandler struct {
	composer   *guide.Composer
	normalizer *itinerary.Normalizer
	logger     *slog.Logger
}

func NewGuideHandler(composer *guide.Composer, normalizer *itinerary.Normalizer, logger *slog.Logger) *GuideHandler {
	return &GuideHandler{composer: composer, normalizer: normalizer, logger: logger}
}

// RegisterRoutes 는 안내문 라우트를 등록한다.
func (h *GuideHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/guide/compose", h.handleCompose)
}

func (h *GuideHandler) handleCompose(c *gin.Context) {
	var req ComposeRequest
	if !bindJSON(c, &req) {
		return
	}

	// 요청 본문의 레코드는 정규화를 거치지 않았을 수 있다.
	record := h.normalizer.Sanitize(req.Record)

	doc, err := h.composer.Compose(req.Inputs, record, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	warnings := doc.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, ComposeResponse{Text: doc.Text, Warnings: warnings})
}
