package metrics

import (
	"sync/atomic"
	"time"
)

// Usage 는 추론 호출 한 건의 토큰 사용량이다.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Store 는 추출 파이프라인 호출 통계를 저장한다.
type Store struct {
	totalExtractions  int64
	totalErrors       int64
	totalCaptureFails int64
	totalInputTokens  int64
	totalOutputTokens int64
	totalDurationMs   int64
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	return &Store{}
}

// RecordExtractionSuccess 는 성공한 추출 호출 통계를 기록한다.
func (s *Store) RecordExtractionSuccess(duration time.Duration, usage Usage) {
	atomic.AddInt64(&s.totalExtractions, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
}

// RecordExtractionError 는 실패한 추출 호출 통계를 기록한다.
func (s *Store) RecordExtractionError(duration time.Duration) {
	atomic.AddInt64(&s.totalExtractions, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
}

// RecordCaptureFailure 는 페이지 캡처 실패를 기록한다.
func (s *Store) RecordCaptureFailure() {
	atomic.AddInt64(&s.totalCaptureFails, 1)
}

// UsageTotals 는 누적 토큰 사용량을 반환한다.
func (s *Store) UsageTotals() Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	return Usage{
		InputTokens:  int(input),
		OutputTokens: int(output),
		TotalTokens:  int(input + output),
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalExtractions := atomic.LoadInt64(&s.totalExtractions)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	captureFails := atomic.LoadInt64(&s.totalCaptureFails)
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalExtractions > 0 {
		avgDuration = float64(durationMs) / float64(totalExtractions)
	}

	return map[string]float64{
		"total_extractions":    float64(totalExtractions),
		"total_errors":         float64(totalErrors),
		"total_capture_fails":  float64(captureFails),
		"total_input_tokens":   float64(input),
		"total_output_tokens":  float64(output),
		"total_tokens":         float64(input + output),
		"total_duration_ms":    float64(durationMs),
		"avg_duration_ms":      avgDuration,
	}
}
