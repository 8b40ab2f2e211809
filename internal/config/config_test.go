package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("inputs:\n  - ./docs.json\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", cfg.Title, DefaultTitle)
	}
	if cfg.Output.Directory != DefaultOutputDir || !cfg.Output.Clean {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("theme = %q", cfg.Theme)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if !cfg.Validation.LinksEnabled() {
		t.Error("link validation should default to enabled")
	}
	if cfg.Validation.Strict {
		t.Error("strict validation should default to off")
	}
	if !cfg.Search.IndexEnabled() {
		t.Error("search should default to enabled")
	}
	if cfg.Search.Weights.Name != DefaultSearchNameWeight ||
		cfg.Search.Weights.Comment != DefaultSearchCommentWeight ||
		cfg.Search.Weights.Document != DefaultSearchDocumentWeight {
		t.Errorf("weights = %+v", cfg.Search.Weights)
	}
	if cfg.Preview.DebounceMS != DefaultPreviewDebounceMS {
		t.Errorf("debounce = %d", cfg.Preview.DebounceMS)
	}
	if cfg.Reporting.Enabled() {
		t.Error("reporting should stay off without a nats url")
	}
	if cfg.Logging.Level != LogLevelInfo || cfg.Logging.Format != LogFormatText {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestParseExplicitValues(t *testing.T) {
	body := `
title: Widget Docs
inputs:
  - alpha.json
  - beta.json
theme: minimal
validation:
  links: false
  strict: true
search:
  enabled: false
  weights:
    name: 5
reporting:
  nats_url: nats://localhost:4222
logging:
  level: DEBUG
  format: json
`
	cfg, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Validation.LinksEnabled() {
		t.Error("links: false should disable validation")
	}
	if !cfg.Validation.Strict {
		t.Error("strict should be honored")
	}
	if cfg.Search.IndexEnabled() {
		t.Error("search: enabled: false should disable the index")
	}
	if cfg.Search.Weights.Name != 5 {
		t.Errorf("explicit name weight = %v", cfg.Search.Weights.Name)
	}
	// Unset weights still pick up defaults.
	if cfg.Search.Weights.Comment != DefaultSearchCommentWeight {
		t.Errorf("comment weight = %v", cfg.Search.Weights.Comment)
	}
	if !cfg.Reporting.Enabled() {
		t.Error("reporting should be on with a nats url")
	}
	if cfg.Reporting.Subject != DefaultReportSubject || cfg.Reporting.Bucket != DefaultReportBucket {
		t.Errorf("reporting defaults = %+v", cfg.Reporting)
	}
	if cfg.Logging.Level != LogLevelDebug {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != LogFormatJSON {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("DOCREFLECT_TEST_TITLE", "From Env")
	cfg, err := Parse([]byte("title: ${DOCREFLECT_TEST_TITLE}\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Title != "From Env" {
		t.Errorf("title = %q, want env expansion", cfg.Title)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "blank input entry",
			body: "inputs:\n  - \"  \"\n",
			want: "inputs",
		},
		{
			name: "negative weight",
			body: "search:\n  weights:\n    name: -1\n",
			want: "weights",
		},
		{
			name: "reporting without url",
			body: "reporting:\n  subject: custom.subject\n",
			want: "nats_url",
		},
		{
			name: "bad metrics listen",
			body: "metrics:\n  listen: nonsense\n",
			want: "metrics.listen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInitAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docreflect.yaml")
	if err := Init(path, false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := Init(path, false); err == nil {
		t.Fatal("Init should refuse to overwrite without force")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("Init with force failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of generated config failed: %v", err)
	}
	if len(cfg.Inputs) == 0 {
		t.Error("generated config should list an example input")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
}

func TestNormalizeLogHelpers(t *testing.T) {
	if NormalizeLogLevel(" WARN ") != LogLevelWarn {
		t.Error("level normalization should trim and lowercase")
	}
	if NormalizeLogLevel("nonsense") != LogLevelInfo {
		t.Error("unknown level should fall back to info")
	}
	if NormalizeLogFormat("JSON") != LogFormatJSON {
		t.Error("format normalization should lowercase")
	}
	if LogLevelDebug.SlogLevel().String() != "DEBUG" {
		t.Errorf("slog mapping = %v", LogLevelDebug.SlogLevel())
	}
}
