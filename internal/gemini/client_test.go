package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/config"
	"github.com/myevertour/guide-server-go/internal/metrics"
)

func testConfig(maxRetries int) *config.Config {
	return &config.Config{
		Gemini: config.GeminiConfig{
			APIKeys:          []string{"test-key"},
			Model:            "gemini-flash-latest",
			MaxRetries:       maxRetries,
			RetryBaseSeconds: 0,
			TimeoutSeconds:   10,
			MaxOutputTokens:  1024,
		},
	}
}

func testClient(t *testing.T, maxRetries int, generate generateFunc) *Client {
	t.Helper()
	client, err := NewClient(testConfig(maxRetries), metrics.NewStore(), nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.generate = generate
	return client
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func testAttachment() capture.Attachment {
	return capture.Attachment{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}
}

func TestExtractStructuredSuccessAfterRateLimit(t *testing.T) {
	calls := 0
	client := testClient(t, 5, func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		calls++
		if calls < 3 {
			return nil, genai.APIError{Code: 429, Message: "Resource has been exhausted"}
		}
		return textResponse("```json\n{\"tour_title\": \"서유럽 3국 9일\"}\n```"), nil
	})

	parsed, err := client.ExtractStructured(context.Background(), "prompt", testAttachment(), "")
	if err != nil {
		t.Fatalf("ExtractStructured failed: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if parsed["tour_title"] != "서유럽 3국 9일" {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestExtractStructuredQuotaExhausted(t *testing.T) {
	calls := 0
	client := testClient(t, 5, func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, genai.APIError{Code: 429, Message: "RESOURCE_EXHAUSTED"}
	})

	_, err := client.ExtractStructured(context.Background(), "prompt", testAttachment(), "")
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got: %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected retry ceiling of 5 attempts, got %d", calls)
	}
}

func TestExtractStructuredFatalErrorNoRetry(t *testing.T) {
	calls := 0
	client := testClient(t, 5, func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, errors.New("invalid argument")
	})

	_, err := client.ExtractStructured(context.Background(), "prompt", testAttachment(), "")
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fatal error must not retry, got %d attempts", calls)
	}
}

func TestExtractStructuredParseError(t *testing.T) {
	client := testClient(t, 5, func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		return textResponse("죄송하지만 JSON을 만들 수 없습니다."), nil
	})

	_, err := client.ExtractStructured(context.Background(), "prompt", testAttachment(), "")
	if !errors.Is(err, ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got: %v", err)
	}
}

func TestExtractStructuredEmptyAttachment(t *testing.T) {
	calls := 0
	client := testClient(t, 5, func(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, nil
	})

	_, err := client.ExtractStructured(context.Background(), "prompt", capture.Attachment{}, "")
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got: %v", err)
	}
	if calls != 0 {
		t.Fatalf("empty attachment must not call the model")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                        "{\"a\":1}",
		"```json\n{\"a\":1}\n```":          "{\"a\":1}",
		"```\n{\"a\":1}\n```":              "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```  ":      "{\"a\":1}",
		"```json\n{\n\"a\": \"b\"\n}\n```": "{\n\"a\": \"b\"\n}",
	}
	for input, want := range cases {
		if got := StripCodeFence(input); got != want {
			t.Fatalf("StripCodeFence(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	if !isRateLimited(genai.APIError{Code: 429, Message: "quota"}) {
		t.Fatalf("429 APIError should be retriable")
	}
	if !isRateLimited(errors.New("Resource has been exhausted (e.g. check quota)")) {
		t.Fatalf("exhausted message should be retriable")
	}
	if isRateLimited(errors.New("invalid argument")) {
		t.Fatalf("generic error should not be retriable")
	}
	if isRateLimited(nil) {
		t.Fatalf("nil error should not be retriable")
	}
}
