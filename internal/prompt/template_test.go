package prompt

import (
	"testing"
	"testing/fstest"
)

func TestFormatTemplate(t *testing.T) {
	out, err := FormatTemplate("안녕하세요 {name}님, {place}에서 뵙겠습니다.", map[string]string{
		"name":  "김팀장",
		"place": "인천공항",
	})
	if err != nil {
		t.Fatalf("FormatTemplate failed: %v", err)
	}
	if out != "안녕하세요 김팀장님, 인천공항에서 뵙겠습니다." {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestFormatTemplateEscapedBraces(t *testing.T) {
	out, err := FormatTemplate("{{json}} {key}", map[string]string{"key": "v"})
	if err != nil {
		t.Fatalf("FormatTemplate failed: %v", err)
	}
	if out != "{json} v" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestFormatTemplateMissingValue(t *testing.T) {
	if _, err := FormatTemplate("{missing}", map[string]string{}); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestFormatTemplateUnmatchedBrace(t *testing.T) {
	if _, err := FormatTemplate("broken {key", map[string]string{"key": "v"}); err == nil {
		t.Fatalf("expected error for unmatched brace")
	}
	if _, err := FormatTemplate("broken }", nil); err == nil {
		t.Fatalf("expected error for lone closing brace")
	}
}

func TestLoadYAMLDir(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/extract.yml": &fstest.MapFile{
			Data: []byte("system: 시스템\nuser: '{url} 분석'\n"),
		},
	}
	prompts, err := LoadYAMLDir(fsys, "prompts")
	if err != nil {
		t.Fatalf("LoadYAMLDir failed: %v", err)
	}
	extract, ok := prompts["extract"]
	if !ok {
		t.Fatalf("extract prompt not loaded")
	}
	if extract["system"] != "시스템" {
		t.Fatalf("unexpected system prompt: %s", extract["system"])
	}
}
