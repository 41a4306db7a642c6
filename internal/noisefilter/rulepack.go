package noisefilter

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rulepacks/*.yml
var defaultPacksFS embed.FS

type rawRulepack struct {
	Version    int           `yaml:"version"`
	Categories []rawCategory `yaml:"categories"`
}

type rawCategory struct {
	ID      string   `yaml:"id"`
	Phrases []string `yaml:"phrases"`
}

// loadPhrases 는 내장 룰팩과 선택적 외부 디렉터리의 룰팩을 모두 로드한다.
func loadPhrases(extraDir string, logger *slog.Logger) ([]string, error) {
	phrases, err := loadPackFS(defaultPacksFS, "rulepacks")
	if err != nil {
		return nil, fmt.Errorf("load embedded rulepacks: %w", err)
	}

	dir := strings.TrimSpace(extraDir)
	if dir != "" {
		extra, err := loadPackDir(dir)
		if err != nil {
			if logger != nil {
				logger.Warn("noise_rulepack_dir_skipped", "dir", dir, "err", err)
			}
		} else {
			phrases = append(phrases, extra...)
		}
	}

	return dedupe(phrases), nil
}

func loadPackFS(fsys fs.FS, dir string) ([]string, error) {
	paths, err := fs.Glob(fsys, dir+"/*.yml")
	if err != nil {
		return nil, err
	}

	var phrases []string
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read rulepack %s: %w", path, err)
		}
		loaded, err := parsePack(data)
		if err != nil {
			return nil, fmt.Errorf("parse rulepack %s: %w", path, err)
		}
		phrases = append(phrases, loaded...)
	}
	return phrases, nil
}

func loadPackDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var phrases []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		loaded, err := parsePack(data)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, loaded...)
	}
	return phrases, nil
}

func parsePack(data []byte) ([]string, error) {
	var raw rawRulepack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var phrases []string
	for _, category := range raw.Categories {
		for _, phrase := range category.Phrases {
			trimmed := strings.TrimSpace(phrase)
			if trimmed != "" {
				phrases = append(phrases, trimmed)
			}
		}
	}
	return phrases, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
