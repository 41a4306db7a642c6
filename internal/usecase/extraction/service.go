package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
	"github.com/myevertour/guide-server-go/internal/gemini"
	"github.com/myevertour/guide-server-go/internal/metrics"
)

// ErrNoSource 는 URL 도 문서도 없이 분석을 요청했을 때 반환된다.
var ErrNoSource = errors.New("분석할 URL 이나 문서가 없습니다")

// Extractor 는 추론 클라이언트가 제공해야 하는 동작이다.
type Extractor interface {
	ExtractStructured(ctx context.Context, prompt string, att capture.Attachment, caption string) (map[string]any, error)
}

// Request 는 일정표 분석 요청이다.
// Document 가 있으면 URL 은 캡션 용도로만 쓰인다.
type Request struct {
	URL      string
	Document capture.Attachment
}

// Service 는 캡처, 추론, 정규화를 묶은 일정표 분석 파이프라인이다.
type Service struct {
	capturer   capture.Capturer
	extractor  Extractor
	normalizer *itinerary.Normalizer
	prompts    *itinerary.Prompts
	metrics    *metrics.Store
	logger     *slog.Logger
}

func NewService(
	capturer capture.Capturer,
	extractor Extractor,
	normalizer *itinerary.Normalizer,
	prompts *itinerary.Prompts,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		capturer:   capturer,
		extractor:  extractor,
		normalizer: normalizer,
		prompts:    prompts,
		metrics:    metricsStore,
		logger:     logger,
	}
}

// Analyze 는 요청의 문서 또는 URL 캡처본을 모델에 보내 레코드를 만든다.
func (s *Service) Analyze(ctx context.Context, req Request) (itinerary.Record, error) {
	att, caption, err := s.resolveSource(ctx, req)
	if err != nil {
		return itinerary.Record{}, err
	}

	start := time.Now()
	payload, err := s.extractor.ExtractStructured(ctx, s.prompts.Extract(), att, caption)
	if err != nil {
		return itinerary.Record{}, err
	}

	record, err := s.normalizer.Normalize(payload)
	if err != nil {
		return itinerary.Record{}, fmt.Errorf("%w: %v", gemini.ErrResponseParse, err)
	}

	if s.logger != nil {
		s.logger.Info("itinerary_analyzed",
			"tour_title", record.TourTitle,
			"duration", time.Since(start),
			"notes", len(record.SpecialNotes),
		)
	}
	return record, nil
}

// resolveSource 는 첨부와 캡션을 결정한다. 업로드 문서가 URL 캡처보다 우선한다.
func (s *Service) resolveSource(ctx context.Context, req Request) (capture.Attachment, string, error) {
	if !req.Document.Empty() {
		return req.Document, s.prompts.UploadCaption(), nil
	}

	if req.URL == "" {
		return capture.Attachment{}, "", ErrNoSource
	}

	att, err := s.capturer.Capture(ctx, req.URL)
	if err != nil {
		s.metrics.RecordCaptureFailure()
		if s.logger != nil {
			s.logger.Warn("capture_failed", "url", req.URL, "err", err)
		}
		return capture.Attachment{}, "", err
	}

	caption, err := s.prompts.URLCaption(req.URL)
	if err != nil {
		return capture.Attachment{}, "", err
	}
	return att, caption, nil
}
