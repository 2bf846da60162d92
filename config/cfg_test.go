package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Document.DefaultTheme != "clean" {
		t.Errorf("DefaultTheme = %q, want clean", cfg.Document.DefaultTheme)
	}
	if cfg.Document.Title != "公众号文章" {
		t.Errorf("Title = %q, want 公众号文章", cfg.Document.Title)
	}
	if cfg.Document.Layout.LeadMinChars != 12 {
		t.Errorf("LeadMinChars = %d, want 12", cfg.Document.Layout.LeadMinChars)
	}
	if len(cfg.Document.Layout.TitleBarKeywords) == 0 {
		t.Error("TitleBarKeywords should not be empty by default")
	}
	// Go template syntax must survive configuration processing untouched.
	if !strings.Contains(cfg.Document.OutputNameTemplate, "{{.Title}}") {
		t.Errorf("OutputNameTemplate = %q, want template verbs preserved", cfg.Document.OutputNameTemplate)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console log level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  default_theme: grape
  title: 测试文章
  layout:
    lead_min_chars: 20
    titlebar_keywords: ["总结", "指南"]
session:
  path: ` + filepath.ToSlash(filepath.Join(tmpDir, "s.db")) + `
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.ToSlash(filepath.Join(tmpDir, "test.log")) + `
    mode: append
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Document.DefaultTheme != "grape" {
		t.Errorf("DefaultTheme = %q, want grape", cfg.Document.DefaultTheme)
	}
	if cfg.Document.Title != "测试文章" {
		t.Errorf("Title = %q, want 测试文章", cfg.Document.Title)
	}
	if cfg.Document.Layout.LeadMinChars != 20 {
		t.Errorf("LeadMinChars = %d, want 20", cfg.Document.Layout.LeadMinChars)
	}
	if len(cfg.Document.Layout.TitleBarKeywords) != 2 {
		t.Errorf("TitleBarKeywords = %v, want 2 overridden entries", cfg.Document.Layout.TitleBarKeywords)
	}
	// Values not mentioned in the file keep template defaults.
	if cfg.Document.Layout.BadgeMaxChars != 18 {
		t.Errorf("BadgeMaxChars = %d, want default 18", cfg.Document.Layout.BadgeMaxChars)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console log level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File log mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 1\nnot_a_field: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("LoadConfiguration() with unknown field should fail")
	}
}

func TestLoadConfiguration_BadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("LoadConfiguration() with unsupported version should fail")
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfiguration() with missing file should fail")
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "default_theme") {
		t.Error("Prepare() output is missing document settings")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	out, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(out), "version: 1") {
		t.Errorf("Dump() = %q, want yaml with version", out)
	}
}
