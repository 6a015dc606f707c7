// Package config loads runtime settings from defaults, an optional YAML
// file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"structuredqa/lm"
)

const (
	envConfigFile  = "QA_CONFIG"
	envDotEnv      = "QA_ENV_FILE"
	envAPIKey      = "OPENAI_API_KEY"
	envBaseURL     = "OPENAI_BASE_URL"
	envModel       = "QA_MODEL"
	envTemperature = "QA_TEMPERATURE"
	envMaxTokens   = "QA_MAX_TOKENS"
	envLogFile     = "QA_LOG_FILE"
	envEmbedding   = "QA_EMBEDDING"
	envDatabaseURL = "DATABASE_URL"
	envPort        = "PORT"
)

// Config holds runtime settings. The API key is never read from YAML.
type Config struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"-"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	LogFile     string  `yaml:"log_file"`
	Embedding   string  `yaml:"embedding"`
	DatabaseURL string  `yaml:"database_url"`
	Port        int     `yaml:"port"`
}

// Default returns baseline values.
func Default() Config {
	return Config{
		Model:       "openai/gpt-4o-mini",
		Temperature: 0,
		MaxTokens:   lm.DefaultMaxTokens,
		Embedding:   "titan",
		Port:        8080,
	}
}

// Load applies QA_CONFIG, the .env file (QA_ENV_FILE, default ".env") and
// environment variables on top of Default. Missing files are skipped.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(envConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	dotenv := envOr(envDotEnv, ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", dotenv, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIKey = envOr(envAPIKey, c.APIKey)
	c.BaseURL = envOr(envBaseURL, c.BaseURL)
	c.Model = envOr(envModel, c.Model)
	c.LogFile = envOr(envLogFile, c.LogFile)
	c.Embedding = envOr(envEmbedding, c.Embedding)
	c.DatabaseURL = envOr(envDatabaseURL, c.DatabaseURL)

	if raw := strings.TrimSpace(os.Getenv(envTemperature)); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", envTemperature, err)
		}
		c.Temperature = v
	}
	if raw := strings.TrimSpace(os.Getenv(envMaxTokens)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", envMaxTokens, err)
		}
		c.MaxTokens = v
	}
	if raw := strings.TrimSpace(os.Getenv(envPort)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Port = v
	}
	return nil
}

// Validate reports settings that would make the first model call fail.
func (c Config) Validate() error {
	if strings.HasPrefix(c.Model, "openai/") && c.APIKey == "" {
		return fmt.Errorf("%s: %w", envAPIKey, lm.ErrMissingCredential)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	return nil
}

// LM returns the model client settings.
func (c Config) LM(callbacks ...lm.Callback) lm.Config {
	return lm.Config{
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Callbacks:   callbacks,
	}
}

func envOr(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
