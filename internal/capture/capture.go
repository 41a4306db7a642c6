package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/myevertour/guide-server-go/internal/config"
)

// ErrCaptureFailed 는 자동 캡처가 실패했을 때 반환된다.
// 호출자는 원인을 구분할 수 없으며, 수동 캡처 업로드를 안내해야 한다.
var ErrCaptureFailed = errors.New("capture failed")

// Attachment 는 추론 요청에 첨부할 캡처 결과다.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Empty 는 첨부 데이터가 비어있는지 반환한다.
func (a Attachment) Empty() bool {
	return len(a.Data) == 0
}

// Capturer 는 URL 을 분석 가능한 첨부로 변환한다.
type Capturer interface {
	Capture(ctx context.Context, pageURL string) (Attachment, error)
}

// ChromeCapturer 는 headless Chrome 기반 Capturer 구현이다.
// 요청마다 독립된 브라우저 세션을 만들고, 모든 종료 경로에서 세션을 정리한다.
type ChromeCapturer struct {
	cfg    config.CaptureConfig
	logger *slog.Logger
}

// NewChromeCapturer 는 ChromeCapturer 를 생성한다.
func NewChromeCapturer(cfg config.CaptureConfig, logger *slog.Logger) *ChromeCapturer {
	return &ChromeCapturer{cfg: cfg, logger: logger}
}

// Capture 는 페이지를 렌더링해 설정된 전략으로 캡처한다.
// 실패 원인은 모두 ErrCaptureFailed 하나로 수렴한다.
func (c *ChromeCapturer) Capture(ctx context.Context, pageURL string) (Attachment, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(c.cfg.UserAgent),
		chromedp.WindowSize(c.cfg.ViewportWidth, c.cfg.ViewportHeight),
	)
	if c.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, c.cfg.NavTimeout())
	defer cancelNav()

	var data []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(pageURL),
		// lazy-load 콘텐츠가 로드되도록 스크롤 후 대기한다.
		chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight);", nil),
		chromedp.Sleep(time.Duration(c.cfg.ScrollSettleMS) * time.Millisecond),
		chromedp.Evaluate("window.scrollTo(0, 0);", nil),
		chromedp.Sleep(time.Duration(c.cfg.TopSettleMS) * time.Millisecond),
		c.captureAction(&data),
	}

	if err := chromedp.Run(navCtx, tasks); err != nil {
		if c.logger != nil {
			c.logger.Warn("capture_failed", "url", pageURL, "strategy", string(c.cfg.Strategy), "err", err)
		}
		return Attachment{}, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("%w: empty capture output", ErrCaptureFailed)
	}

	if c.logger != nil {
		c.logger.Info("capture_success", "url", pageURL, "strategy", string(c.cfg.Strategy), "bytes", len(data))
	}
	return Attachment{Data: data, MIMEType: StrategyMIMEType(c.cfg.Strategy)}, nil
}

func (c *ChromeCapturer) captureAction(out *[]byte) chromedp.Action {
	if c.cfg.Strategy == config.CaptureStrategyScreenshot {
		return chromedp.FullScreenshot(out, 90)
	}
	// PDF 캡처는 텍스트 레이어를 보존하므로 폰트/이미지 차단에 더 강하다.
	return chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			Do(ctx)
		if err != nil {
			return err
		}
		*out = data
		return nil
	})
}

// StrategyMIMEType 는 캡처 전략에 대응하는 MIME 타입을 반환한다.
func StrategyMIMEType(strategy config.CaptureStrategy) string {
	if strategy == config.CaptureStrategyScreenshot {
		return "image/png"
	}
	return "application/pdf"
}
