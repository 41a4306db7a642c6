package itinerary

import (
	"embed"
	"fmt"
	"strings"

	"github.com/myevertour/guide-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptFS embed.FS

// Prompts 는 추출 프롬프트와 첨부 캡션 템플릿을 들고 있다.
type Prompts struct {
	extract       string
	uploadCaption string
	urlCaption    string
}

// LoadPrompts 는 내장 프롬프트 디렉터리를 로드하고 필수 필드를 검증한다.
func LoadPrompts() (*Prompts, error) {
	loaded, err := prompt.LoadYAMLDir(promptFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("추출 프롬프트 로드 실패: %w", err)
	}
	mapping, ok := loaded["extract"]
	if !ok {
		return nil, fmt.Errorf("추출 프롬프트 파일(extract)이 없습니다")
	}

	extract, err := prompt.Field(mapping, "extract", "추출 프롬프트")
	if err != nil {
		return nil, err
	}
	uploadCaption, err := prompt.Field(mapping, "upload_caption", "업로드 캡션")
	if err != nil {
		return nil, err
	}
	urlCaption, err := prompt.Field(mapping, "url_caption", "URL 캡션")
	if err != nil {
		return nil, err
	}

	// 스키마 예시의 중괄호 이스케이프를 여기서 풀어 둔다.
	rendered, err := prompt.FormatTemplate(extract, nil)
	if err != nil {
		return nil, fmt.Errorf("추출 프롬프트 템플릿 오류: %w", err)
	}

	return &Prompts{
		extract:       strings.TrimSpace(rendered),
		uploadCaption: strings.TrimSpace(uploadCaption),
		urlCaption:    strings.TrimSpace(urlCaption),
	}, nil
}

// Extract 는 모델에 보낼 추출 프롬프트 전문을 반환한다.
func (p *Prompts) Extract() string {
	return p.extract
}

// UploadCaption 은 사용자가 직접 올린 이미지에 붙일 캡션이다.
func (p *Prompts) UploadCaption() string {
	return p.uploadCaption
}

// URLCaption 은 URL 캡처본에 붙일 캡션을 만든다.
func (p *Prompts) URLCaption(pageURL string) (string, error) {
	return prompt.FormatTemplate(p.urlCaption, map[string]string{"url": pageURL})
}
