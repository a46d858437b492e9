// Package config provides configuration loading and validation for the CLI.
// Values come from the environment, an optional JSON file and command flags,
// in increasing order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Defaults applied when neither environment, file nor flags set a value
const (
	DefaultPersona        = "full_time"
	DefaultLLMTimeoutSecs = 20
	DefaultCacheTTLMins   = 60
	DefaultLogLevel       = "info"
)

// Config represents the CLI configuration. All fields are optional.
type Config struct {
	// Evaluation
	Persona     string `json:"persona,omitempty" env:"PROFILE_PERSONA" validate:"omitempty,oneof=full_time executive deferred switcher international reapplicant"`
	Track       string `json:"track,omitempty" env:"PROFILE_TRACK" validate:"omitempty,oneof=product_management consulting finance technology operations marketing general_management social_impact"`
	LexiconPath string `json:"lexicon_path,omitempty" env:"PROFILE_LEXICON"` // Path to a lexicon YAML overriding the embedded one
	UserID      string `json:"user_id,omitempty" env:"PROFILE_USER_ID"`      // User UUID for stored profiles

	// Language model
	APIKey            string `json:"api_key,omitempty" env:"GEMINI_API_KEY"`
	Model             string `json:"model,omitempty" env:"GEMINI_MODEL"`
	UseLLM            bool   `json:"use_llm,omitempty" env:"PROFILE_USE_LLM"`
	LLMTimeoutSeconds int    `json:"llm_timeout_seconds,omitempty" env:"LLM_TIMEOUT_SECONDS" validate:"gte=0"`

	// Storage
	DatabaseURL     string `json:"database_url,omitempty" env:"DATABASE_URL"`
	RedisURL        string `json:"redis_url,omitempty" env:"REDIS_URL"`
	CacheTTLMinutes int    `json:"cache_ttl_minutes,omitempty" env:"CACHE_TTL_MINUTES" validate:"gte=0"`

	// Behavior
	LogLevel string `json:"log_level,omitempty" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Verbose  bool   `json:"verbose,omitempty" env:"PROFILE_VERBOSE"` // Print detailed debug information
}

var validate = validator.New()

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Persona:           DefaultPersona,
		LLMTimeoutSeconds: DefaultLLMTimeoutSecs,
		CacheTTLMinutes:   DefaultCacheTTLMins,
		LogLevel:          DefaultLogLevel,
	}
}

// FromEnv reads configuration from environment variables
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load resolves the effective configuration: the JSON file at path (if any)
// over the environment over Defaults
func Load(path string) (*Config, error) {
	envCfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	merged := envCfg.MergeWithDefaults(Defaults())

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged = fileCfg.MergeWithDefaults(merged)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the
// command being run.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.UserID != "" {
		if _, err := uuid.Parse(c.UserID); err != nil {
			return fmt.Errorf("config error: 'user_id' is not a UUID: %w", err)
		}
	}

	if c.UseLLM && c.APIKey == "" {
		return fmt.Errorf("config error: 'use_llm' requires 'api_key'")
	}

	// Validate file paths exist (if specified)
	if c.LexiconPath != "" {
		if _, err := os.Stat(c.LexiconPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: lexicon file not found: %s", c.LexiconPath)
		}
	}

	return nil
}

// LLMTimeout returns the language model timeout as a duration
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// CacheTTL returns the cache entry lifetime as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer file values over environment values over built-ins.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Persona == "" {
		result.Persona = defaults.Persona
	}
	if result.Track == "" {
		result.Track = defaults.Track
	}
	if result.LexiconPath == "" {
		result.LexiconPath = defaults.LexiconPath
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.LLMTimeoutSeconds == 0 {
		result.LLMTimeoutSeconds = defaults.LLMTimeoutSeconds
	}
	if result.CacheTTLMinutes == 0 {
		result.CacheTTLMinutes = defaults.CacheTTLMinutes
	}

	// Bools are true if any layer sets them
	result.UseLLM = result.UseLLM || defaults.UseLLM
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
