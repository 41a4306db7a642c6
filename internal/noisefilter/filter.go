package noisefilter

import (
	"log/slog"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/forPelevin/gomoji"
	"golang.org/x/text/unicode/norm"

	"github.com/myevertour/guide-server-go/internal/config"
)

// Filter 는 추출된 특이사항에서 노이즈 항목을 걸러낸다.
// 유류할증료 고지 등 안내문에 싣지 않는 카테고리의 거부 목록이다.
type Filter struct {
	matcher *ahocorasick.Matcher
	phrases []string
}

// New 는 노이즈 필터를 생성한다.
func New(cfg config.NotesConfig, logger *slog.Logger) (*Filter, error) {
	phrases, err := loadPhrases(cfg.RulepacksDir, logger)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		normalized = append(normalized, normalizeText(phrase))
	}

	return &Filter{
		matcher: ahocorasick.NewStringMatcher(normalized),
		phrases: phrases,
	}, nil
}

// Phrases 는 로드된 거부 문구 목록을 반환한다.
func (f *Filter) Phrases() []string {
	out := make([]string, len(f.phrases))
	copy(out, f.phrases)
	return out
}

// IsNoise 는 항목이 노이즈 카테고리에 해당하는지 판별한다.
func (f *Filter) IsNoise(note string) bool {
	if f == nil || f.matcher == nil {
		return false
	}
	normalized := normalizeText(note)
	if normalized == "" {
		return true
	}
	return len(f.matcher.MatchThreadSafe([]byte(normalized))) > 0
}

// Apply 는 노이즈 항목과 빈 항목을 제거한 목록을 반환한다.
// 이미 필터링된 목록에 다시 적용해도 결과는 같다.
func (f *Filter) Apply(notes []string) []string {
	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if strings.TrimSpace(note) == "" {
			continue
		}
		if f.IsNoise(note) {
			continue
		}
		filtered = append(filtered, note)
	}
	return filtered
}

// normalizeText 는 매칭 전 텍스트를 정규화한다.
// 전각 문자를 NFKC 로 접고 이모지 장식을 제거해, 폭 변형이나
// 장식이 붙은 추출 결과도 거부 목록에 걸리게 한다.
func normalizeText(text string) string {
	folded := norm.NFKC.String(text)
	stripped := gomoji.RemoveEmojis(folded)
	return strings.TrimSpace(stripped)
}
