package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// CaptureStrategy 는 스냅샷 캡처 방식이다.
type CaptureStrategy string

const (
	// CaptureStrategyPDF 는 print-to-PDF 캡처 방식이다.
	CaptureStrategyPDF CaptureStrategy = "pdf"
	// CaptureStrategyScreenshot 는 전체 페이지 스크린샷 캡처 방식이다.
	CaptureStrategyScreenshot CaptureStrategy = "screenshot"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// GeminiConfig 는 Gemini 모델 설정이다.
type GeminiConfig struct {
	APIKeys          []string
	Model            string
	Temperature      float64
	MaxOutputTokens  int
	MaxRetries       int
	RetryBaseSeconds int
	TimeoutSeconds   int
}

// PrimaryKey 는 기본 API 키를 반환한다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// RetryBaseDelay 는 재시도 백오프의 시작 대기 시간을 반환한다.
func (g GeminiConfig) RetryBaseDelay() time.Duration {
	return time.Duration(g.RetryBaseSeconds) * time.Second
}

// CaptureConfig 는 일정표 페이지 캡처 설정이다.
type CaptureConfig struct {
	Strategy          CaptureStrategy
	NavTimeoutSeconds int
	UserAgent         string
	ViewportWidth     int
	ViewportHeight    int
	ScrollSettleMS    int
	TopSettleMS       int
	NoSandbox         bool
}

// NavTimeout 은 페이지 로드 제한 시간을 반환한다.
func (c CaptureConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// NotesConfig 는 특이사항 노이즈 필터 설정이다.
type NotesConfig struct {
	RulepacksDir string
}

// LoggingConfig 는 로깅 설정이다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig 는 HTTP 서버 설정이다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig 는 API 키 인증 설정이다.
type HTTPAuthConfig struct {
	APIKey string
}

// Config 는 애플리케이션 전체 설정이다.
type Config struct {
	Gemini   GeminiConfig
	Capture  CaptureConfig
	Notes    NotesConfig
	Logging  LoggingConfig
	HTTP     HTTPConfig
	HTTPAuth HTTPAuthConfig
}

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
// Gemini API 키가 없으면 프로세스를 시작하지 않는다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return errors.New("GEMINI_API_KEY is required")
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model is empty")
	}
	switch c.Capture.Strategy {
	case CaptureStrategyPDF, CaptureStrategyScreenshot:
	default:
		return fmt.Errorf("unknown capture strategy: %s", c.Capture.Strategy)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", maskSecret(cfg.Gemini.PrimaryKey()),
		"model", cfg.Gemini.Model,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"max_retries", cfg.Gemini.MaxRetries,
		"capture_strategy", string(cfg.Capture.Strategy),
		"capture_timeout", cfg.Capture.NavTimeoutSeconds,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_gemini_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:          parseAPIKeys(),
			Model:            getEnvString("GEMINI_MODEL", "gemini-flash-latest"),
			Temperature:      getEnvFloat("GEMINI_TEMPERATURE", 0.2),
			MaxOutputTokens:  getEnvInt("GEMINI_MAX_TOKENS", 8192),
			MaxRetries:       max(1, getEnvInt("GEMINI_MAX_RETRIES", 5)),
			RetryBaseSeconds: max(1, getEnvInt("GEMINI_RETRY_BASE_SECONDS", 10)),
			TimeoutSeconds:   getEnvInt("GEMINI_TIMEOUT", 120),
		},
		Capture: CaptureConfig{
			Strategy:          CaptureStrategy(getEnvString("CAPTURE_STRATEGY", string(CaptureStrategyPDF))),
			NavTimeoutSeconds: max(1, getEnvInt("CAPTURE_NAV_TIMEOUT_SECONDS", 30)),
			UserAgent: getEnvString(
				"CAPTURE_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			),
			ViewportWidth:  getEnvInt("CAPTURE_VIEWPORT_WIDTH", 1280),
			ViewportHeight: getEnvInt("CAPTURE_VIEWPORT_HEIGHT", 1080),
			ScrollSettleMS: getEnvNonNegativeInt("CAPTURE_SCROLL_SETTLE_MS", 2000),
			TopSettleMS:    getEnvNonNegativeInt("CAPTURE_TOP_SETTLE_MS", 1000),
			NoSandbox:      getEnvBool("CAPTURE_NO_SANDBOX", true),
		},
		Notes: NotesConfig{
			RulepacksDir: getEnvString("NOTES_RULEPACKS_DIR", ""),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 40831),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
	}
}
