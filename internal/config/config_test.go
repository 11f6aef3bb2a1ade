package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.APIBaseURL != "https://api.wikimedia.org" {
		t.Errorf("unexpected api_base_url %q", cfg.APIBaseURL)
	}
	if cfg.Language != "en" {
		t.Errorf("unexpected language %q", cfg.Language)
	}
	if cfg.UpdateURL != "" {
		t.Errorf("update checks should be off by default, got %q", cfg.UpdateURL)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{RequestTimeout: "3s"}
	if got := cfg.Timeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}

	cfg.RequestTimeout = "invalid"
	if got := cfg.Timeout(); got != 15*time.Second {
		t.Errorf("expected 15s default for invalid timeout, got %v", got)
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"30d", 30},
		{"720h", 30},
		{"", 90},
		{"invalid", 90},
	}
	for _, tt := range tests {
		cfg := &Config{HistoryRetention: tt.input}
		got := cfg.RetentionDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"d", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDays(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDays(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDays(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestGetHistoryLimit(t *testing.T) {
	if got := (&Config{}).GetHistoryLimit(); got != 20 {
		t.Errorf("expected default 20, got %d", got)
	}
	if got := (&Config{HistoryLimit: 5}).GetHistoryLimit(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "language: de\nhistory_limit: 7\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "de" {
		t.Errorf("expected de, got %s", cfg.Language)
	}
	if cfg.HistoryLimit != 7 {
		t.Errorf("expected history_limit 7, got %d", cfg.HistoryLimit)
	}
	if cfg.APIBaseURL != "https://api.wikimedia.org" {
		t.Errorf("expected default base URL to survive, got %q", cfg.APIBaseURL)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("expected default language, got %q", cfg.Language)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("language: [unterminated"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvLanguage, "fr")
	t.Setenv(EnvListenAddr, "127.0.0.1:9999")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAPIBaseURL, "http://localhost:8081")
	t.Setenv(EnvUpdateURL, "http://localhost:8082/releases/latest")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "fr" || cfg.ListenAddr != "127.0.0.1:9999" || cfg.LogLevel != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.APIBaseURL != "http://localhost:8081" {
		t.Errorf("expected base URL override, got %q", cfg.APIBaseURL)
	}
	if cfg.UpdateURL != "http://localhost:8082/releases/latest" {
		t.Errorf("expected update URL override, got %q", cfg.UpdateURL)
	}
}

func TestLoadRejectsBadEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "verbose")
	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Error("expected validation error for unknown log level")
	}
}

func validConfig() *Config {
	return &Config{APIBaseURL: "https://api.wikimedia.org", Language: "en"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"http base", func(c *Config) { c.APIBaseURL = "http://localhost:8080" }, false},
		{"missing base", func(c *Config) { c.APIBaseURL = "" }, true},
		{"file scheme", func(c *Config) { c.APIBaseURL = "file:///etc/passwd" }, true},
		{"no host", func(c *Config) { c.APIBaseURL = "https://" }, true},
		{"bad featured url", func(c *Config) { c.FeaturedFeedURL = "ftp://example.com" }, true},
		{"regional language", func(c *Config) { c.Language = "zh-yue" }, false},
		{"bad language", func(c *Config) { c.Language = "EN" }, true},
		{"empty language", func(c *Config) { c.Language = "" }, true},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "soon" }, true},
		{"bad retention", func(c *Config) { c.HistoryRetention = "forever" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"update url", func(c *Config) { c.UpdateURL = "https://api.github.com/repos/o/r/releases/latest" }, false},
		{"bad update url", func(c *Config) { c.UpdateURL = "not a url" }, true},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		err := validate(cfg)
		if tt.wantErr && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}
