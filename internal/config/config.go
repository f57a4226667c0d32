// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults, merged in priority order.
// Configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	LLM         LLMConfig         `mapstructure:"llm"`
	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Session     SessionConfig     `mapstructure:"session"`
	Storage     StorageConfig     `mapstructure:"storage"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// CredentialsConfig points at the two secret files read once at startup.
// Each file is a YAML mapping; the *Key fields name the entry holding the secret.
type CredentialsConfig struct {
	TextGenerationFile string `mapstructure:"text_generation_file"`
	OpenAIKey          string `mapstructure:"openai_key"`
	AnthropicKey       string `mapstructure:"anthropic_key"`
	GeminiKey          string `mapstructure:"gemini_key"`
	ImageSearchFile    string `mapstructure:"image_search_file"`
	ImageSearchKey     string `mapstructure:"image_search_key"`
}

type LLMConfig struct {
	// Models is the model catalog offered to users. Each entry names the
	// backend that serves it ("openai", "anthropic" or "gemini").
	Models        []ModelConfig `mapstructure:"models"`
	OpenAI        BackendConfig `mapstructure:"openai"`
	Anthropic     BackendConfig `mapstructure:"anthropic"`
	Gemini        BackendConfig `mapstructure:"gemini"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

type ModelConfig struct {
	Name     string `mapstructure:"name"`
	Provider string `mapstructure:"provider"`
}

// BackendConfig holds per-backend overrides. An empty BaseURL uses the SDK default.
type BackendConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type ImageSearchConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GenerationConfig struct {
	DefaultModel       string  `mapstructure:"default_model"`
	DefaultTemperature float64 `mapstructure:"default_temperature"`
	// HistoryLimit caps how many prior quotes are sent back in the prompt.
	// 0 sends the whole session history.
	HistoryLimit  int  `mapstructure:"history_limit"`
	StrictParsing bool `mapstructure:"strict_parsing"`
}

type SessionConfig struct {
	CookieName  string        `mapstructure:"cookie_name"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	SweepEvery  time.Duration `mapstructure:"sweep_every"`
}

// StorageConfig enables the LLM call ledger. An empty DatabasePath disables it.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
// A missing config file is fine when no explicit path was given: defaults and env are enough.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("credentials.text_generation_file", "./credentials.yml")
	v.SetDefault("credentials.openai_key", "openai")
	v.SetDefault("credentials.anthropic_key", "anthropic")
	v.SetDefault("credentials.gemini_key", "gemini")
	v.SetDefault("credentials.image_search_file", "./credentials.yaml")
	v.SetDefault("credentials.image_search_key", "PEXELS_API_KEY")
	v.SetDefault("llm.models", []map[string]string{
		{"name": "gpt-4o-mini", "provider": "openai"},
	})
	v.SetDefault("llm.anthropic.max_tokens", 1024)
	v.SetDefault("llm.rate_per_minute", 30)
	v.SetDefault("image_search.base_url", "https://api.pexels.com/v1")
	v.SetDefault("image_search.timeout", 30*time.Second)
	v.SetDefault("generation.default_model", "gpt-4o-mini")
	v.SetDefault("generation.default_temperature", 0.8)
	v.SetDefault("generation.history_limit", 0)
	v.SetDefault("generation.strict_parsing", false)
	v.SetDefault("session.cookie_name", "quote_session")
	v.SetDefault("session.idle_timeout", 24*time.Hour)
	v.SetDefault("session.sweep_every", 10*time.Minute)
	v.SetDefault("storage.database_path", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("rate_limit.requests_per_second", 1)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// QUOTE_ prefix + nested keys: QUOTE_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
