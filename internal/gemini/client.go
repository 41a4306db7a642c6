package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"google.golang.org/genai"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/config"
	"github.com/myevertour/guide-server-go/internal/metrics"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrQuotaExhausted 는 재시도 한도까지 할당량 초과가 계속될 때 반환된다.
	ErrQuotaExhausted = errors.New("quota exhausted")
	// ErrResponseParse 는 응답 텍스트가 유효한 JSON 이 아닐 때 반환된다.
	ErrResponseParse = errors.New("inference response parse failed")
	// ErrInference 는 재시도 대상이 아닌 추론 오류다.
	ErrInference = errors.New("inference failed")
)

// attemptOutcome 는 재시도 루프에서 시도 하나의 결과 분류다.
type attemptOutcome int

const (
	attemptSuccess attemptOutcome = iota
	attemptRetriable
	attemptFatal
)

// generateFunc 는 실제 모델 호출을 감싼다. 테스트에서 교체한다.
type generateFunc func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error)

// Client 는 멀티모달 추출 추론 호출을 담당한다.
type Client struct {
	cfg      *config.Config
	metrics  *metrics.Store
	logger   *slog.Logger
	generate generateFunc

	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeys   []string
	apiKeyIdx int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	client := &Client{
		cfg:     cfg,
		metrics: metricsStore,
		logger:  logger,
		clients: make(map[string]*genai.Client),
		apiKeys: cfg.Gemini.APIKeys,
	}
	client.generate = client.generateContent
	return client, nil
}

// ExtractStructured 는 프롬프트와 첨부를 보내 JSON 오브젝트를 추출한다.
// 전체 파싱에 성공한 오브젝트 또는 오류만 반환하며, 부분 결과는 없다.
func (c *Client) ExtractStructured(
	ctx context.Context,
	prompt string,
	att capture.Attachment,
	caption string,
) (map[string]any, error) {
	if att.Empty() {
		return nil, fmt.Errorf("%w: empty attachment", ErrInference)
	}

	contents := buildContents(prompt, att, caption)
	maxRetries := c.cfg.Gemini.MaxRetries
	baseDelay := c.cfg.Gemini.RetryBaseDelay()

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		parsed, usage, outcome, err := c.attempt(ctx, contents)
		switch outcome {
		case attemptSuccess:
			c.metrics.RecordExtractionSuccess(time.Since(start), usage)
			return parsed, nil
		case attemptFatal:
			c.metrics.RecordExtractionError(time.Since(start))
			return nil, err
		case attemptRetriable:
			lastErr = err
		}

		if attempt >= maxRetries-1 {
			break
		}

		// 할당량 오류만 재시도한다: base, 2*base, 4*base, ...
		delay := baseDelay * time.Duration(1<<uint(attempt))
		if c.logger != nil {
			c.logger.Warn("gemini_rate_limited",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"delay", delay,
				"err", err,
			)
		}
		select {
		case <-ctx.Done():
			c.metrics.RecordExtractionError(time.Since(start))
			return nil, fmt.Errorf("inference cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	c.metrics.RecordExtractionError(time.Since(start))
	return nil, fmt.Errorf(
		"%w: API 할당량 초과로 인해 %d회 재시도 후에도 실패했습니다. 잠시 후 다시 시도해주세요. (%v)",
		ErrQuotaExhausted, maxRetries, lastErr,
	)
}

// attempt 는 시도 하나를 수행하고 결과를 분류한다.
func (c *Client) attempt(
	ctx context.Context,
	contents []*genai.Content,
) (map[string]any, metrics.Usage, attemptOutcome, error) {
	response, err := c.generate(ctx, contents)
	if err != nil {
		if isRateLimited(err) {
			return nil, metrics.Usage{}, attemptRetriable, err
		}
		return nil, metrics.Usage{}, attemptFatal, fmt.Errorf("%w: %v", ErrInference, err)
	}

	usage := extractUsage(response)
	payload := StripCodeFence(response.Text())
	if strings.TrimSpace(payload) == "" {
		return nil, usage, attemptFatal, fmt.Errorf("%w: empty response text", ErrResponseParse)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, usage, attemptFatal, fmt.Errorf("%w: %v", ErrResponseParse, err)
	}
	return parsed, usage, attemptSuccess, nil
}

func (c *Client) generateContent(
	ctx context.Context,
	contents []*genai.Content,
) (*genai.GenerateContentResponse, error) {
	client, err := c.selectClient(ctx)
	if err != nil {
		return nil, err
	}

	temperature := float32(c.cfg.Gemini.Temperature)
	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}

	response, err := client.Models.GenerateContent(ctx, c.cfg.Gemini.Model, contents, generateConfig)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return response, nil
}

func extractUsage(response *genai.GenerateContentResponse) metrics.Usage {
	if response == nil || response.UsageMetadata == nil {
		return metrics.Usage{}
	}
	usage := response.UsageMetadata
	return metrics.Usage{
		InputTokens:  int(usage.PromptTokenCount),
		OutputTokens: int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount),
		TotalTokens:  int(usage.TotalTokenCount),
	}
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func buildContents(prompt string, att capture.Attachment, caption string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(att.Data, att.MIMEType),
	}
	if caption != "" {
		parts = append(parts, genai.NewPartFromText(caption))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// isRateLimited 는 할당량/요청 제한 오류인지 판별한다.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "429") ||
		strings.Contains(message, "RESOURCE_EXHAUSTED") ||
		strings.Contains(message, "Resource has been exhausted")
}

// StripCodeFence 는 응답을 감싼 마크다운 코드펜스를 제거한다.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
