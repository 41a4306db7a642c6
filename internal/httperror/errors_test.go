package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/gemini"
	"github.com/myevertour/guide-server-go/internal/usecase/extraction"
)

func TestFromErrorMapping(t *testing.T) {
	apiErr := FromError(extraction.ErrNoSource)
	if apiErr == nil || apiErr.Code != ErrorCodeMissingSource || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected missing source error with 400, got %+v", apiErr)
	}

	apiErr = FromError(fmt.Errorf("%w: navigation timeout", capture.ErrCaptureFailed))
	if apiErr == nil || apiErr.Code != ErrorCodeCaptureFailed || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected capture failed error with 502, got %+v", apiErr)
	}

	apiErr = FromError(fmt.Errorf("%w: 5회 재시도 실패", gemini.ErrQuotaExhausted))
	if apiErr == nil || apiErr.Code != ErrorCodeRateLimited || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected rate limited error with 429, got %+v", apiErr)
	}

	apiErr = FromError(gemini.ErrResponseParse)
	if apiErr == nil || apiErr.Code != ErrorCodeLLMParsing {
		t.Fatalf("expected llm parsing error, got %+v", apiErr)
	}

	apiErr = FromError(gemini.ErrMissingAPIKey)
	if apiErr == nil || apiErr.Code != ErrorCodeLLM || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected llm error with 503, got %+v", apiErr)
	}

	apiErr = FromError(context.DeadlineExceeded)
	if apiErr == nil || apiErr.Code != ErrorCodeLLMTimeout {
		t.Fatalf("expected timeout error, got %+v", apiErr)
	}

	apiErr = FromError(errors.New("unexpected"))
	if apiErr == nil || apiErr.Code != ErrorCodeInternal {
		t.Fatalf("expected internal error, got %+v", apiErr)
	}
}

func TestResponseIncludesRequestID(t *testing.T) {
	status, payload := Response(NewMissingSource(), "req-1")
	if status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID == nil || *payload.RequestID != "req-1" {
		t.Fatal("expected request id")
	}
	if payload.ErrorCode != string(ErrorCodeMissingSource) {
		t.Fatalf("unexpected error code: %s", payload.ErrorCode)
	}
}

func TestResponseWithoutRequestID(t *testing.T) {
	_, payload := Response(NewCaptureFailed(), "")
	if payload.RequestID != nil {
		t.Fatal("expected nil request id")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(errors.New("field validation failed"))
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	// NewValidationError 는 422 Unprocessable Entity 반환
	if err.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 status, got: %d", err.Status)
	}
	if err.Details == nil {
		t.Fatal("expected details with field errors")
	}
}
