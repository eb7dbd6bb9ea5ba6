// Package config loads the coach configuration from defaults, an optional
// YAML file, and environment variable overrides, in that priority order.
package config

import (
	"fmt"
	"time"

	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/persistence"
	"github.com/dhruvladia/career-coach-ai/scraper"
)

// Config is the complete coach configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" env:"SERVER"`
	Store   StoreConfig   `yaml:"store" env:"STORE"`
	LLM     LLMConfig     `yaml:"llm" env:"LLM"`
	Scraper ScraperConfig `yaml:"scraper" env:"SCRAPER"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	AllowedOrigin   string        `yaml:"allowed_origin" env:"ALLOWED_ORIGIN"`
}

// StoreConfig selects the persistence backends.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string      `yaml:"backend" env:"BACKEND"`
	Redis   RedisConfig `yaml:"redis" env:"REDIS"`
	// HistoryBackend is "memory" or "sqlite".
	HistoryBackend string `yaml:"history_backend" env:"HISTORY_BACKEND"`
	HistoryPath    string `yaml:"history_path" env:"HISTORY_PATH"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host      string `yaml:"host" env:"HOST"`
	Port      int    `yaml:"port" env:"PORT"`
	Password  string `yaml:"password" env:"PASSWORD"`
	DB        int    `yaml:"db" env:"DB"`
	PoolSize  int    `yaml:"pool_size" env:"POOL_SIZE"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
}

// LLMConfig holds OpenRouter settings.
type LLMConfig struct {
	APIKey            string        `yaml:"api_key" env:"API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"BASE_URL"`
	Model             string        `yaml:"model" env:"MODEL"`
	Timeout           time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
}

// ScraperConfig holds Apify settings.
type ScraperConfig struct {
	APIToken string        `yaml:"api_token" env:"API_TOKEN"`
	BaseURL  string        `yaml:"base_url" env:"BASE_URL"`
	ActorID  string        `yaml:"actor_id" env:"ACTOR_ID"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Host:      "localhost",
				Port:      6379,
				PoolSize:  10,
				KeyPrefix: "coach:",
			},
			HistoryBackend: "memory",
			HistoryPath:    "coach_history.db",
		},
		LLM: LLMConfig{
			BaseURL:           "https://openrouter.ai/api/v1",
			Model:             "openai/gpt-4o-mini",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
		},
		Scraper: ScraperConfig{
			BaseURL: "https://api.apify.com/v2",
			ActorID: "2SyF0bVxmgGr8IVCZ",
			Timeout: 120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.Server.HTTPPort)
	}
	switch c.Store.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Store.HistoryBackend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("unknown history backend %q", c.Store.HistoryBackend)
	}
	return nil
}

// StoreSettings converts to the persistence package's config type.
func (c *Config) StoreSettings() persistence.StoreConfig {
	return persistence.StoreConfig{
		Backend: c.Store.Backend,
		Redis: persistence.RedisConfig{
			Host:      c.Store.Redis.Host,
			Port:      c.Store.Redis.Port,
			Password:  c.Store.Redis.Password,
			DB:        c.Store.Redis.DB,
			PoolSize:  c.Store.Redis.PoolSize,
			KeyPrefix: c.Store.Redis.KeyPrefix,
		},
		History: persistence.HistoryConfig{
			Backend: c.Store.HistoryBackend,
			Path:    c.Store.HistoryPath,
		},
	}
}

// LLMSettings converts to the llm package's provider config.
func (c *Config) LLMSettings() llm.OpenRouterConfig {
	return llm.OpenRouterConfig{
		APIKey:            c.LLM.APIKey,
		BaseURL:           c.LLM.BaseURL,
		Model:             c.LLM.Model,
		Timeout:           c.LLM.Timeout,
		RequestsPerSecond: c.LLM.RequestsPerSecond,
	}
}

// ScraperSettings converts to the scraper package's config.
func (c *Config) ScraperSettings() scraper.Config {
	return scraper.Config{
		APIToken: c.Scraper.APIToken,
		BaseURL:  c.Scraper.BaseURL,
		ActorID:  c.Scraper.ActorID,
		Timeout:  c.Scraper.Timeout,
	}
}
