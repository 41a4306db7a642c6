package capture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/myevertour/guide-server-go/internal/config"
)

func TestStrategyMIMEType(t *testing.T) {
	if got := StrategyMIMEType(config.CaptureStrategyPDF); got != "application/pdf" {
		t.Fatalf("unexpected pdf mime: %s", got)
	}
	if got := StrategyMIMEType(config.CaptureStrategyScreenshot); got != "image/png" {
		t.Fatalf("unexpected screenshot mime: %s", got)
	}
}

func TestAttachmentEmpty(t *testing.T) {
	if !(Attachment{}).Empty() {
		t.Fatalf("zero attachment should be empty")
	}
	if (Attachment{Data: []byte{1}, MIMEType: "image/png"}).Empty() {
		t.Fatalf("non-zero attachment should not be empty")
	}
}

func TestCaptureFailedWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: navigation timeout", ErrCaptureFailed)
	if !errors.Is(wrapped, ErrCaptureFailed) {
		t.Fatalf("wrapped error should match ErrCaptureFailed")
	}
}
