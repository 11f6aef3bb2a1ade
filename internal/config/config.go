package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Config struct {
	APIBaseURL       string `yaml:"api_base_url"`
	Language         string `yaml:"language"`
	RequestTimeout   string `yaml:"request_timeout"`
	UserAgent        string `yaml:"user_agent"`
	FeaturedFeedURL  string `yaml:"featured_feed_url"`
	UpdateURL        string `yaml:"update_url"`
	HistoryRetention string `yaml:"history_retention"`
	HistoryLimit     int    `yaml:"history_limit,omitempty"`
	ListenAddr       string `yaml:"listen_addr"`
	LogLevel         string `yaml:"log_level"`
}

// Environment variables that override the file, checked after loading .env.
const (
	EnvAPIBaseURL = "TIMEPORTAL_API_BASE_URL"
	EnvLanguage   = "TIMEPORTAL_LANGUAGE"
	EnvListenAddr = "TIMEPORTAL_LISTEN_ADDR"
	EnvLogLevel   = "TIMEPORTAL_LOG_LEVEL"
	EnvUpdateURL  = "TIMEPORTAL_UPDATE_URL"
)

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.HistoryRetention == "" {
		return 90 * 24 * time.Hour
	}
	d, err := ParseDays(c.HistoryRetention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// GetHistoryLimit returns how many past searches to list, defaulting to 20.
func (c *Config) GetHistoryLimit() int {
	if c.HistoryLimit <= 0 {
		return 20
	}
	return c.HistoryLimit
}

// ParseDays is time.ParseDuration plus an "Nd" day form.
func ParseDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "timeportal", "config.yaml")
}

func HistoryPath() string {
	return filepath.Join(xdg.DataHome, "timeportal", "history.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "timeportal", "timeportal.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default path), layering it over the
// embedded defaults and then over environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults still apply.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvUpdateURL); v != "" {
		cfg.UpdateURL = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]+)?$`)

func validate(cfg *Config) error {
	if err := validateURL("api_base_url", cfg.APIBaseURL); err != nil {
		return err
	}
	if cfg.FeaturedFeedURL != "" {
		if err := validateURL("featured_feed_url", cfg.FeaturedFeedURL); err != nil {
			return err
		}
	}
	if cfg.UpdateURL != "" {
		if err := validateURL("update_url", cfg.UpdateURL); err != nil {
			return err
		}
	}
	if !languagePattern.MatchString(cfg.Language) {
		return fmt.Errorf("language: invalid wiki language code %q", cfg.Language)
	}
	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	if cfg.HistoryRetention != "" {
		if _, err := ParseDays(cfg.HistoryRetention); err != nil {
			return fmt.Errorf("history_retention: %w", err)
		}
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q (valid: debug, info, warn, error)", cfg.LogLevel)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: url has no host", field)
	}
	return nil
}
