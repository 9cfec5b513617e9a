// Package config loads ichiwatch configuration from YAML/JSON files with
// environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete watcher configuration.
type Config struct {
	Ticker     string         `json:"ticker" yaml:"ticker"`
	Recipients []string       `json:"recipients,omitempty" yaml:"recipients,omitempty"`
	Feed       FeedConfig     `json:"feed" yaml:"feed"`
	SMTP       SMTPConfig     `json:"smtp" yaml:"smtp"`
	Webhook    WebhookConfig  `json:"webhook,omitempty" yaml:"webhook,omitempty"`
	Ledger     LedgerConfig   `json:"ledger" yaml:"ledger"`
	Snapshot   SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	LogLevel   string         `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// FeedConfig points at the price data provider.
type FeedConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// SMTPConfig contains notification transport credentials.
type SMTPConfig struct {
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	From     string `json:"from,omitempty" yaml:"from,omitempty"`
}

// WebhookConfig enables an optional webhook notification channel.
type WebhookConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// LedgerConfig selects and parameterizes the dedup ledger store.
type LedgerConfig struct {
	Type          string `json:"type" yaml:"type"` // "file", "sqlite" or "redis"
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisKey      string `json:"redis_key,omitempty" yaml:"redis_key,omitempty"`
}

// SnapshotConfig locates the published dashboard document.
type SnapshotConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON), applies
// environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyEnv layers environment overrides on top of the file values.
func (c *Config) applyEnv() {
	setStr(&c.Ticker, "ICHIWATCH_TICKER")
	if v := os.Getenv("ICHIWATCH_RECIPIENTS"); v != "" {
		c.Recipients = splitList(v)
	}
	setStr(&c.Feed.BaseURL, "ICHIWATCH_FEED_URL")
	setStr(&c.SMTP.Host, "ICHIWATCH_SMTP_HOST")
	if v := os.Getenv("ICHIWATCH_SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	setStr(&c.SMTP.Username, "ICHIWATCH_SMTP_USERNAME")
	setStr(&c.SMTP.Password, "ICHIWATCH_SMTP_PASSWORD")
	setStr(&c.SMTP.From, "ICHIWATCH_SMTP_FROM")
	setStr(&c.Webhook.URL, "ICHIWATCH_WEBHOOK_URL")
	setStr(&c.Ledger.Path, "ICHIWATCH_LEDGER_PATH")
	setStr(&c.Snapshot.Path, "ICHIWATCH_SNAPSHOT_PATH")
	setStr(&c.LogLevel, "ICHIWATCH_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	switch c.Ledger.Type {
	case "file":
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path required for file type")
		}
	case "sqlite":
		if c.Ledger.DBPath == "" {
			return fmt.Errorf("ledger.db_path required for sqlite type")
		}
	case "redis":
		if c.Ledger.RedisAddr == "" {
			return fmt.Errorf("ledger.redis_addr required for redis type")
		}
	default:
		return fmt.Errorf("ledger.type must be 'file', 'sqlite' or 'redis'")
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required")
	}
	if len(c.Recipients) > 0 {
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return fmt.Errorf("smtp.host and smtp.from required when recipients are set")
		}
		if c.SMTP.Port <= 0 {
			return fmt.Errorf("smtp.port must be positive")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ticker: "GLD",
		Ledger: LedgerConfig{
			Type:     "file",
			Path:     "./ichiwatch-ledger.json",
			RedisKey: "ichiwatch:fired",
		},
		Snapshot: SnapshotConfig{
			Path: "./snapshot.json",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		LogLevel: "info",
	}
}
