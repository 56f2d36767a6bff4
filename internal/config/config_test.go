package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreDriverJSON, cfg.Store.Driver)
	assert.Equal(t, "contracts.json", cfg.Store.JSON.Path)
	assert.Equal(t, 72.0, cfg.Ingestion.PDFDPI)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Model)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
server:
  port: 8088
  request_timeout: 45s
store:
  driver: sqlite
  sqlite:
    path: /tmp/contracts-test.db
ingestion:
  pdf_dpi: 150
  ocr_languages: [eng, deu]
  ocr_concurrency: 4
llm:
  model: llama-3.3-70b-versatile
observability:
  log_format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/contracts-test.db", cfg.Store.SQLite.Path)
	assert.Equal(t, 150.0, cfg.Ingestion.PDFDPI)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Ingestion.OCRLanguages)
	assert.Equal(t, 4, cfg.Ingestion.OCRConcurrency)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
	// untouched sections keep their defaults
	assert.Equal(t, "https://api.groq.com/openai/v1/", cfg.LLM.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LLM_API_KEY", "gsk-test")
	t.Setenv("LLM_MODEL", "mixtral-8x7b-32768")
	t.Setenv("OCR_LANGUAGES", "eng+fra")
	t.Setenv("STORE_PATH", "/data/contracts.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.LLM.Model)
	assert.Equal(t, []string{"eng", "fra"}, cfg.Ingestion.OCRLanguages)
	assert.Equal(t, "/data/contracts.json", cfg.Store.JSON.Path)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_DatabaseURLSelectsDriver(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/contracts?sslmode=disable")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Contains(t, cfg.Store.Postgres.DSN, "localhost:5432")
}

func TestLoad_RedisURLSelectsDriver(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StoreDriverPostgres }},
		{"json without path", func(c *Config) { c.Store.JSON.Path = "" }},
		{"zero dpi", func(c *Config) { c.Ingestion.PDFDPI = 0 }},
		{"zero concurrency", func(c *Config) { c.Ingestion.OCRConcurrency = 0 }},
		{"no languages", func(c *Config) { c.Ingestion.OCRLanguages = nil }},
		{"no model", func(c *Config) { c.LLM.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
