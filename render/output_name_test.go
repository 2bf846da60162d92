package render

import (
	"testing"

	"go.uber.org/zap"

	"wac/common"
	"wac/config"
	"wac/state"
)

func testEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return &state.LocalEnv{Cfg: cfg, Log: zap.NewNop()}
}

func TestBuildOutputName(t *testing.T) {
	t.Run("default template uses title and extension", func(t *testing.T) {
		env := testEnv(t)
		got := buildOutputName("我的文章", "clean", common.ExportFmtFull, env)
		if got != "我的文章.html" {
			t.Errorf("buildOutputName() = %q, want 我的文章.html", got)
		}
	})

	t.Run("css format switches extension", func(t *testing.T) {
		env := testEnv(t)
		got := buildOutputName("我的文章", "clean", common.ExportFmtCSS, env)
		if got != "我的文章.css" {
			t.Errorf("buildOutputName() = %q, want 我的文章.css", got)
		}
	})

	t.Run("custom template", func(t *testing.T) {
		env := testEnv(t)
		env.Cfg.Document.OutputNameTemplate = "{{.Theme}}-{{.Format}}{{.Ext}}"
		got := buildOutputName("ignored", "grape", common.ExportFmtInline, env)
		if got != "grape-inline.html" {
			t.Errorf("buildOutputName() = %q, want grape-inline.html", got)
		}
	})

	t.Run("broken template falls back to title", func(t *testing.T) {
		env := testEnv(t)
		env.Cfg.Document.OutputNameTemplate = "{{.Nope"
		got := buildOutputName("标题", "clean", common.ExportFmtFull, env)
		if got != "标题.html" {
			t.Errorf("buildOutputName() = %q, want fallback 标题.html", got)
		}
	})

	t.Run("transliteration keeps extension", func(t *testing.T) {
		env := testEnv(t)
		env.Cfg.Document.FileNameTransliterate = true
		got := buildOutputName("My Article", "clean", common.ExportFmtFull, env)
		if got != "my-article.html" {
			t.Errorf("buildOutputName() = %q, want my-article.html", got)
		}
	})
}
