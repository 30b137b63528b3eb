package config

import (
	"fmt"

	"ctr-insight-service/internal/analysis/core/domain"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    int    `mapstructure:"http_port"`
	PostgresDSN string `mapstructure:"postgres_dsn"`

	GroupBy                string  `mapstructure:"group_by"`
	MinReliableImpressions int64   `mapstructure:"min_reliable_impressions"`
	TopN                   int     `mapstructure:"top_n"`
	IQRMultiplier          float64 `mapstructure:"iqr_multiplier"`
	VolumeBands            []int64 `mapstructure:"volume_bands"`

	ResultCacheSize int `mapstructure:"result_cache_size"`

	LLMAPIKey     string `mapstructure:"llm_api_key"`
	LLMBaseURL    string `mapstructure:"llm_base_url"`
	LLMModel      string `mapstructure:"llm_model"`
	LLMMaxTokens  int    `mapstructure:"llm_max_tokens"`
	LLMTimeoutSec int    `mapstructure:"llm_timeout_sec"`
}

// Load reads configuration from env and an optional yaml file.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CTRINSIGHT")
	v.AutomaticEnv()

	v.SetDefault("http_port", 8080)
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("group_by", domain.GroupByPrimary)
	v.SetDefault("min_reliable_impressions", 10)
	v.SetDefault("top_n", 10)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("volume_bands", []int64{1000, 100})
	v.SetDefault("result_cache_size", 128)
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm_model", "gpt-4o-mini")
	v.SetDefault("llm_max_tokens", 1024)
	v.SetDefault("llm_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate fails fast on invalid run parameters so a bad deployment
// never reaches the pipeline.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", c.HTTPPort)
	}
	if c.GroupBy == "" {
		return fmt.Errorf("group_by must not be empty")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.MinReliableImpressions < 0 {
		return fmt.Errorf("min_reliable_impressions must not be negative, got %d", c.MinReliableImpressions)
	}
	if c.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr_multiplier must be positive, got %v", c.IQRMultiplier)
	}
	for i, t := range c.VolumeBands {
		if t <= 0 {
			return fmt.Errorf("volume_bands must be positive, got %d", t)
		}
		if i > 0 && t >= c.VolumeBands[i-1] {
			return fmt.Errorf("volume_bands must be strictly descending")
		}
	}
	if c.ResultCacheSize <= 0 {
		return fmt.Errorf("result_cache_size must be positive, got %d", c.ResultCacheSize)
	}
	return nil
}

// RunConfig maps the analysis knobs onto the core's run configuration.
func (c *Config) RunConfig() domain.RunConfig {
	return domain.RunConfig{
		GroupBy:                c.GroupBy,
		MinReliableImpressions: c.MinReliableImpressions,
		TopN:                   c.TopN,
		IQRMultiplier:          c.IQRMultiplier,
		VolumeBands:            c.VolumeBands,
	}
}
