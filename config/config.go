// Package config loads pipeline configuration from an optional YAML file and
// the environment. Environment variables always win over file values, so a
// checked-in config file can carry defaults while secrets stay in the
// environment (or a local .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the course generation pipeline.
type Config struct {
	// Provider selects the LLM backend: "openai" or "anthropic".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Concurrency bounds the number of subtopics generated in parallel.
	// Zero means unbounded.
	Concurrency int `yaml:"concurrency"`

	MaxRetries     int           `yaml:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Store selects the cache backend: "memory", "redis" or "postgres".
	Store       string `yaml:"store"`
	RedisAddr   string `yaml:"redis_addr"`
	PostgresDSN string `yaml:"postgres_dsn"`

	// RetrieverURL, when set, points the pipeline at a remote retrieval
	// service instead of the in-process keyword retriever.
	RetrieverURL string `yaml:"retriever_url"`
	RetrieverKey string `yaml:"retriever_key"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Provider:       "openai",
		Concurrency:    4,
		MaxRetries:     3,
		RequestTimeout: 60 * time.Second,
		Store:          "memory",
	}
}

// Load builds the effective configuration. A .env file in the working
// directory is loaded first (missing is fine), then the YAML file named by
// COURSEGEN_CONFIG or the path argument, then environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("COURSEGEN_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Provider, "COURSEGEN_PROVIDER")
	setString(&c.Model, "COURSEGEN_MODEL")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setInt(&c.Concurrency, "COURSEGEN_CONCURRENCY")
	setInt(&c.MaxRetries, "COURSEGEN_MAX_RETRIES")
	setDuration(&c.RequestTimeout, "COURSEGEN_REQUEST_TIMEOUT")
	setString(&c.Store, "COURSEGEN_STORE")
	setString(&c.RedisAddr, "COURSEGEN_REDIS_ADDR")
	setString(&c.PostgresDSN, "COURSEGEN_POSTGRES_DSN")
	setString(&c.RetrieverURL, "COURSEGEN_RETRIEVER_URL")
	setString(&c.RetrieverKey, "COURSEGEN_RETRIEVER_KEY")
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}

	switch c.Store {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}

	if c.Store == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("config: store is redis but redis_addr is empty")
	}
	if c.Store == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("config: store is postgres but postgres_dsn is empty")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config: concurrency must be >= 0, got %d", c.Concurrency)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
