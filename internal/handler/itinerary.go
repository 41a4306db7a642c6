package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/config"
	"github.com/myevertour/guide-server-go/internal/httperror"
	"github.com/myevertour/guide-server-go/internal/metrics"
	"github.com/myevertour/guide-server-go/internal/middleware"
	"github.com/myevertour/guide-server-go/internal/usecase/extraction"
)

// AnalyzeRequest 는 일정표 분석 요청 본문이다.
// document 는 base64 인코딩된 이미지 또는 PDF 바이트다.
type AnalyzeRequest struct {
	URL      string `json:"url" binding:"omitempty,url"`
	Document string `json:"document"`
	MIMEType string `json:"mime_type"`
}

// ItineraryHandler 는 일정표 분석 API 핸들러다.
type ItineraryHandler struct {
	cfg     *config.Config
	service *extraction.Service
	metrics *metrics.Store
	logger  *slog.Logger
}

func NewItineraryHandler(
	cfg *config.Config,
	service *extraction.Service,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *ItineraryHandler {
	return &ItineraryHandler{
		cfg:     cfg,
		service: service,
		metrics: metricsStore,
		logger:  logger,
	}
}

// RegisterRoutes 는 일정표 라우트를 등록한다.
func (h *ItineraryHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/itinerary")
	group.POST("/analyze", h.handleAnalyze)
	group.GET("/metrics", h.handleMetrics)
}

func (h *ItineraryHandler) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}

	document, err := h.decodeDocument(req)
	if err != nil {
		writeError(c, err)
		return
	}

	record, err := h.service.Analyze(c.Request.Context(), extraction.Request{
		URL:      strings.TrimSpace(req.URL),
		Document: document,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("analyze_failed", "request_id", middleware.GetRequestID(c), "err", err)
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *ItineraryHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// decodeDocument 는 업로드 문서를 첨부로 변환한다.
// MIME 타입을 생략하면 캡처 전략의 기본 타입을 따른다.
func (h *ItineraryHandler) decodeDocument(req AnalyzeRequest) (capture.Attachment, error) {
	encoded := strings.TrimSpace(req.Document)
	if encoded == "" {
		return capture.Attachment{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return capture.Attachment{}, httperror.NewValidationError(err)
	}

	mimeType := strings.TrimSpace(req.MIMEType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return capture.Attachment{Data: data, MIMEType: mimeType}, nil
}
