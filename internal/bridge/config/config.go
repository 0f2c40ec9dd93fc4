package config

import (
	"time"

	"openalgo-sheets/pkg/config"
)

// OpenAlgo holds the configuration for the upstream OpenAlgo API.
type OpenAlgo struct {
	APIKey              string        `mapstructure:"api_key"`
	Version             string        `mapstructure:"version"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Grid holds response formatting preferences.
type Grid struct {
	// PreferredFormat is the global default: auto, table, or key_value.
	PreferredFormat string `mapstructure:"preferred_format"`
	// Timezone for rendering epoch timestamps, e.g. "Asia/Kolkata".
	Timezone string `mapstructure:"timezone"`
}

// Cache holds response cache configuration. Market data only; order and
// account endpoints are never cached.
type Cache struct {
	Enabled      bool          `mapstructure:"enabled"`
	QuoteTTL     time.Duration `mapstructure:"quote_ttl"`
	DepthTTL     time.Duration `mapstructure:"depth_ttl"`
	HistoryTTL   time.Duration `mapstructure:"history_ttl"`
	IntervalsTTL time.Duration `mapstructure:"intervals_ttl"`
}

// Audit holds audit log configuration.
type Audit struct {
	RetentionDays int    `mapstructure:"retention_days"`
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

// Telegram holds configuration for the order alert notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the bridge service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	OpenAlgo OpenAlgo        `mapstructure:"openalgo"`
	Grid     Grid            `mapstructure:"grid"`
	Cache    Cache           `mapstructure:"cache"`
	Audit    Audit           `mapstructure:"audit"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the bridge configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
