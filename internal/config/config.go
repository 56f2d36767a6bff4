// Package config provides configuration loading for the contract service.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreDriverJSON     = "json"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config holds all configuration for the service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Store         StoreConfig         `yaml:"store"`
	Ingestion     IngestionConfig     `yaml:"ingestion"`
	LLM           LLMConfig           `yaml:"llm"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Driver   string         `yaml:"driver"` // json, sqlite, postgres or redis
	JSON     JSONConfig     `yaml:"json"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// JSONConfig holds settings for the single-file JSON store.
type JSONConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Key      string `yaml:"key"`
}

// IngestionConfig holds upload/OCR pipeline settings.
type IngestionConfig struct {
	StagingDir     string   `yaml:"staging_dir"` // empty means os.TempDir()
	PDFDPI         float64  `yaml:"pdf_dpi"`
	OCRLanguages   []string `yaml:"ocr_languages"`
	OCRConcurrency int      `yaml:"ocr_concurrency"`
}

// LLMConfig holds settings for the OpenAI-compatible chat endpoint.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             5000,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     5 * time.Minute,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   5 * time.Minute,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Store: StoreConfig{
			Driver: StoreDriverJSON,
			JSON: JSONConfig{
				Path: "contracts.json",
			},
			SQLite: SQLiteConfig{
				Path:         "contracts.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Key:      "contracts",
			},
		},
		Ingestion: IngestionConfig{
			PDFDPI:         72,
			OCRLanguages:   []string{"eng"},
			OCRConcurrency: 1,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.groq.com/openai/v1/",
			Model:   "llama3-70b-8192",
			Timeout: 2 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "contract-assistant",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case StoreDriverJSON:
		if c.Store.JSON.Path == "" {
			return fmt.Errorf("store.json.path is required for the json driver")
		}
	case StoreDriverSQLite:
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required for the sqlite driver")
		}
	case StoreDriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required for the postgres driver")
		}
	case StoreDriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}

	if c.Ingestion.PDFDPI <= 0 {
		return fmt.Errorf("ingestion.pdf_dpi must be positive, got %v", c.Ingestion.PDFDPI)
	}

	if c.Ingestion.OCRConcurrency < 1 {
		return fmt.Errorf("ingestion.ocr_concurrency must be at least 1, got %d", c.Ingestion.OCRConcurrency)
	}

	if len(c.Ingestion.OCRLanguages) == 0 {
		return fmt.Errorf("ingestion.ocr_languages must not be empty")
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}

	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.Store.JSON.Path = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Store.Driver = StoreDriverSQLite
			cfg.Store.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Store.Driver = StoreDriverPostgres
			cfg.Store.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Store.Driver = StoreDriverRedis
		cfg.Store.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("STAGING_DIR"); v != "" {
		cfg.Ingestion.StagingDir = v
	}

	if v := os.Getenv("PDF_DPI"); v != "" {
		if dpi, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ingestion.PDFDPI = dpi
		}
	}

	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		cfg.Ingestion.OCRLanguages = splitList(v)
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '+' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
