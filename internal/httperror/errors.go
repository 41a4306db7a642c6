package httperror

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/gemini"
	"github.com/myevertour/guide-server-go/internal/usecase/extraction"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 검증 오류 코드다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized 는 인증 오류 코드다.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeMissingSource 는 분석 소스 누락 코드다.
	ErrorCodeMissingSource ErrorCode = "MISSING_SOURCE"
	// ErrorCodeCaptureFailed 는 페이지 캡처 실패 코드다.
	ErrorCodeCaptureFailed ErrorCode = "CAPTURE_FAILED"
	// ErrorCodeRateLimited 는 추론 할당량 초과 코드다.
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrorCodeLLM 는 LLM 오류 코드다.
	ErrorCodeLLM ErrorCode = "LLM_ERROR"
	// ErrorCodeLLMTimeout 는 LLM 타임아웃 코드다.
	ErrorCodeLLMTimeout ErrorCode = "LLM_TIMEOUT"
	// ErrorCodeLLMParsing 는 LLM 응답 파싱 오류 코드다.
	ErrorCodeLLMParsing ErrorCode = "LLM_PARSING_ERROR"
)

// ErrorResponse 는 API 오류 응답 본문이다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, extraction.ErrNoSource) {
		return NewMissingSource()
	}

	if errors.Is(err, capture.ErrCaptureFailed) {
		return NewCaptureFailed()
	}

	if errors.Is(err, gemini.ErrQuotaExhausted) {
		return NewRateLimited(err.Error())
	}

	if errors.Is(err, gemini.ErrResponseParse) {
		return NewLLMParsingError(err.Error())
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return NewLLMError("Missing Gemini API key", http.StatusServiceUnavailable)
	}

	if errors.Is(err, gemini.ErrInference) {
		return NewLLMError(err.Error(), http.StatusInternalServerError)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewLLMTimeoutError("Inference request timed out")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
		Details: nil,
	}
}

// NewValidationError 는 검증 오류를 생성한다.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewUnauthorized 는 인증 오류를 생성한다.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewMissingSource 는 분석 소스 누락 오류를 생성한다.
// URL 도 업로드 문서도 없으면 네트워크 호출 없이 바로 반환된다.
func NewMissingSource() *Error {
	return &Error{
		Code:    ErrorCodeMissingSource,
		Status:  http.StatusBadRequest,
		Type:    "MissingSourceError",
		Message: "URL이나 이미지를 입력해주세요.",
		Details: nil,
	}
}

// NewCaptureFailed 는 페이지 캡처 실패 오류를 생성한다.
func NewCaptureFailed() *Error {
	return &Error{
		Code:   ErrorCodeCaptureFailed,
		Status: http.StatusBadGateway,
		Type:   "CaptureFailedError",
		Message: "자동 캡처에 실패했습니다. " +
			"(보안 설정이 강화된 사이트일 수 있습니다. 직접 스크린샷을 찍어서 업로드해주세요.)",
		Details: nil,
	}
}

// NewRateLimited 는 할당량 초과 오류를 생성한다.
func NewRateLimited(message string) *Error {
	return &Error{
		Code:    ErrorCodeRateLimited,
		Status:  http.StatusTooManyRequests,
		Type:    "RateLimitedError",
		Message: message,
		Details: nil,
	}
}

// NewLLMParsingError 는 LLM 응답 파싱 오류를 생성한다.
func NewLLMParsingError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMParsing,
		Status:  http.StatusBadGateway,
		Type:    "LLMParsingError",
		Message: message,
		Details: nil,
	}
}

// NewLLMTimeoutError 는 LLM 타임아웃 오류를 생성한다.
func NewLLMTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "LLMTimeoutError",
		Message: message,
		Details: nil,
	}
}

// NewLLMError 는 재시도 불가능한 LLM 오류를 생성한다.
func NewLLMError(message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeLLM,
		Status:  status,
		Type:    "LLMError",
		Message: message,
		Details: nil,
	}
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
