package cli

import (
	"os"

	"github.com/spf13/viper"

	"github.com/factify/factify/internal/model"
)

// setConfigDefaults registers model.DefaultConfig values with viper so
// config file, FACTIFY_* env vars and flags can override them key by key
func setConfigDefaults() {
	d := model.DefaultConfig()

	viper.SetDefault("server.bind_addr", d.Server.BindAddr)
	viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	viper.SetDefault("server.min_text_len", d.Server.MinTextLen)
	viper.SetDefault("server.max_text_len", d.Server.MaxTextLen)

	viper.SetDefault("llm.api_key", d.LLM.APIKey)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	viper.SetDefault("factcheck.api_key", d.FactCheck.APIKey)
	viper.SetDefault("factcheck.base_url", d.FactCheck.BaseURL)
	viper.SetDefault("factcheck.language", d.FactCheck.Language)
	viper.SetDefault("factcheck.max_results", d.FactCheck.MaxResults)

	viper.SetDefault("ratelimit.limit", d.RateLimit.Limit)
	viper.SetDefault("ratelimit.window", d.RateLimit.Window)

	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.ttl", d.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)

	viper.SetDefault("adapters.timeout", d.Adapters.Timeout)
	viper.SetDefault("adapters.outbound_rps", d.Adapters.OutboundRPS)
	viper.SetDefault("adapters.outbound_burst", d.Adapters.OutboundBurst)
}

// loadConfig assembles the effective configuration from viper, honoring
// the provider API key env vars directly as the lowest-friction path.
func loadConfig() model.Config {
	cfg := model.Config{
		Server: model.ServerConfig{
			BindAddr:       viper.GetString("server.bind_addr"),
			AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
			MinTextLen:     viper.GetInt("server.min_text_len"),
			MaxTextLen:     viper.GetInt("server.max_text_len"),
		},
		LLM: model.LLMConfig{
			APIKey:    viper.GetString("llm.api_key"),
			Model:     viper.GetString("llm.model"),
			BaseURL:   viper.GetString("llm.base_url"),
			MaxTokens: viper.GetInt("llm.max_tokens"),
		},
		FactCheck: model.FactCheckConfig{
			APIKey:     viper.GetString("factcheck.api_key"),
			BaseURL:    viper.GetString("factcheck.base_url"),
			Language:   viper.GetString("factcheck.language"),
			MaxResults: viper.GetInt("factcheck.max_results"),
		},
		RateLimit: model.RateLimitConfig{
			Limit:  viper.GetInt("ratelimit.limit"),
			Window: viper.GetDuration("ratelimit.window"),
		},
		Cache: model.CacheConfig{
			Enabled:         viper.GetBool("cache.enabled"),
			TTL:             viper.GetDuration("cache.ttl"),
			CleanupInterval: viper.GetDuration("cache.cleanup_interval"),
		},
		Adapters: model.AdapterConfig{
			Timeout:       viper.GetDuration("adapters.timeout"),
			OutboundRPS:   viper.GetFloat64("adapters.outbound_rps"),
			OutboundBurst: viper.GetInt("adapters.outbound_burst"),
		},
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.FactCheck.APIKey == "" {
		cfg.FactCheck.APIKey = os.Getenv("GOOGLE_FACT_CHECK_API_KEY")
	}

	return cfg
}
