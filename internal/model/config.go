package model

import "time"

// Config holds the full service configuration.
// Values come from defaults, ~/.factify/config.yaml, FACTIFY_* env vars
// and CLI flags, in increasing priority.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	FactCheck FactCheckConfig `yaml:"factcheck" mapstructure:"factcheck"`
	RateLimit RateLimitConfig `yaml:"ratelimit" mapstructure:"ratelimit"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Adapters  AdapterConfig   `yaml:"adapters" mapstructure:"adapters"`
}

// ServerConfig describes the HTTP surface
type ServerConfig struct {
	BindAddr       string   `yaml:"bind_addr" mapstructure:"bind_addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MinTextLen     int      `yaml:"min_text_len" mapstructure:"min_text_len"`
	MaxTextLen     int      `yaml:"max_text_len" mapstructure:"max_text_len"`
}

// LLMConfig configures the generative-model adapter
type LLMConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"` // Custom endpoint, e.g. a proxy
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// FactCheckConfig configures the structured fact-check adapter.
// An empty APIKey disables the adapter entirely.
type FactCheckConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Language   string `yaml:"language" mapstructure:"language"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// RateLimitConfig bounds requests per client key per fixed window
type RateLimitConfig struct {
	Limit  int           `yaml:"limit" mapstructure:"limit"`
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// CacheConfig controls the in-memory verdict cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// AdapterConfig holds settings shared by all evidence adapters
type AdapterConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`             // Per adapter call
	OutboundRPS   float64       `yaml:"outbound_rps" mapstructure:"outbound_rps"`   // Token bucket toward each provider
	OutboundBurst int           `yaml:"outbound_burst" mapstructure:"outbound_burst"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BindAddr:       "0.0.0.0:8080",
			AllowedOrigins: []string{"*"},
			MinTextLen:     10,
			MaxTextLen:     5000,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1200,
		},
		FactCheck: FactCheckConfig{
			BaseURL:    "https://factchecktools.googleapis.com",
			Language:   "en",
			MaxResults: 5,
		},
		RateLimit: RateLimitConfig{
			Limit:  60,
			Window: time.Minute,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Adapters: AdapterConfig{
			Timeout:       8 * time.Second,
			OutboundRPS:   2,
			OutboundBurst: 4,
		},
	}
}
