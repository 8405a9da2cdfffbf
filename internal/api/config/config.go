package config

import (
	"golang-stock-insight/pkg/config"
)

// MarketData holds the configuration for the upstream market data API.
type MarketData struct {
	Enabled             bool     `mapstructure:"enabled"`
	BaseURL             string   `mapstructure:"base_url"`
	MaxRequestPerMinute int      `mapstructure:"max_request_per_minute"`
	MaxRetries          int      `mapstructure:"max_retries"`
	BackoffCap          string   `mapstructure:"backoff_cap"`
	FallbackPeriods     []string `mapstructure:"fallback_periods"`
}

// News holds the configuration for news collection.
type News struct {
	FeedURL        string   `mapstructure:"feed_url"`
	FetchContent   bool     `mapstructure:"fetch_content"`
	WatchedSymbols []string `mapstructure:"watched_symbols"`
	CollectCron    string   `mapstructure:"collect_cron"`
}

// Evaluation holds the configuration for the evaluation sweep.
type Evaluation struct {
	SweepCron  string `mapstructure:"sweep_cron"`
	SweepLimit int    `mapstructure:"sweep_limit"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Sentiment holds configuration for sentiment providers.
type Sentiment struct {
	Provider string `mapstructure:"provider"`
	Gemini   Gemini `mapstructure:"gemini"`
}

// Prediction holds configuration for prediction models.
type Prediction struct {
	ModelDir     string `mapstructure:"model_dir"`
	DefaultModel string `mapstructure:"default_model"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	MarketData MarketData      `mapstructure:"market_data"`
	News       News            `mapstructure:"news"`
	Evaluation Evaluation      `mapstructure:"evaluation"`
	Sentiment  Sentiment       `mapstructure:"sentiment"`
	Prediction Prediction      `mapstructure:"prediction"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
