package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `ticker: SLV
recipients:
  - a@example.com
  - b@example.com
smtp:
  host: mail.example.com
  port: 587
  from: alerts@example.com
ledger:
  type: sqlite
  db_path: ./ledger.db
snapshot:
  path: ./snap.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "SLV", cfg.Ticker)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Recipients)
	assert.Equal(t, "sqlite", cfg.Ledger.Type)
	assert.Equal(t, "./ledger.db", cfg.Ledger.DBPath)
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"ticker": "GLD", "ledger": {"type": "file", "path": "./l.json"}, "snapshot": {"path": "./s.json"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GLD", cfg.Ticker)
	assert.Equal(t, "./l.json", cfg.Ledger.Path)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ticker: GLD\n"), 0644))

	t.Setenv("ICHIWATCH_TICKER", "IAU")
	t.Setenv("ICHIWATCH_RECIPIENTS", "x@example.com, y@example.com")
	t.Setenv("ICHIWATCH_SMTP_HOST", "mail.example.com")
	t.Setenv("ICHIWATCH_SMTP_FROM", "alerts@example.com")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "IAU", cfg.Ticker)
	assert.Equal(t, []string{"x@example.com", "y@example.com"}, cfg.Recipients)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing ticker", func(c *Config) { c.Ticker = "" }},
		{"unknown ledger type", func(c *Config) { c.Ledger.Type = "dynamo" }},
		{"file ledger without path", func(c *Config) { c.Ledger.Path = "" }},
		{"sqlite without db path", func(c *Config) { c.Ledger.Type = "sqlite" }},
		{"redis without addr", func(c *Config) { c.Ledger.Type = "redis" }},
		{"missing snapshot path", func(c *Config) { c.Snapshot.Path = "" }},
		{"recipients without smtp", func(c *Config) { c.Recipients = []string{"a@example.com"} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := Default()
	cfg.Ticker = "SLV"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SLV", loaded.Ticker)
}
