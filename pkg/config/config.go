// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Defaults for the dashboard runtime.
const (
	DefaultPort            = 8080
	DefaultAPIBaseURL      = "http://localhost:8000"
	DefaultRefreshInterval = "60s"
	DefaultPeriod          = "1y"
	DefaultInterval        = "1d"
	DefaultStoragePath     = "./vantage.db"
	DefaultWatchboardSpec  = "@every 30s"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Port            int
	APIBaseURL      string
	RefreshInterval time.Duration
	Period          string
	Interval        string
	Storage         StorageConfig
	Telegram        TelegramConfig
	Watchboard      WatchboardConfig
	MetricsEnabled  bool
	LogLevel        string
}

// StorageConfig selects where analysis snapshots are persisted.
type StorageConfig struct {
	Driver string // "memory" or "file"; SQL needs a dialector wired in code
	Path   string
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	Enabled bool
	Token   string
	Users   []int64
}

// WatchboardConfig drives the periodic watchlist broadcast.
type WatchboardConfig struct {
	Enabled    bool
	Spec       string
	Categories []string
}

// Load reads configuration from environment variables using Viper
func Load() (*AppConfig, error) {
	viper.AutomaticEnv()

	viper.SetDefault("VANTAGE_PORT", DefaultPort)
	viper.SetDefault("VANTAGE_API_URL", DefaultAPIBaseURL)
	viper.SetDefault("VANTAGE_REFRESH_INTERVAL", DefaultRefreshInterval)
	viper.SetDefault("VANTAGE_PERIOD", DefaultPeriod)
	viper.SetDefault("VANTAGE_INTERVAL", DefaultInterval)
	viper.SetDefault("VANTAGE_STORAGE_DRIVER", "memory")
	viper.SetDefault("VANTAGE_STORAGE_PATH", DefaultStoragePath)
	viper.SetDefault("VANTAGE_TELEGRAM_ENABLED", false)
	viper.SetDefault("VANTAGE_WATCHBOARD_ENABLED", true)
	viper.SetDefault("VANTAGE_WATCHBOARD_SPEC", DefaultWatchboardSpec)
	viper.SetDefault("VANTAGE_WATCHBOARD_CATEGORIES", []string{"stocks", "crypto", "tokens"})
	viper.SetDefault("VANTAGE_METRICS_ENABLED", true)
	viper.SetDefault("VANTAGE_LOG_LEVEL", "info")

	refreshInterval, err := str2duration.ParseDuration(viper.GetString("VANTAGE_REFRESH_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval: %w", err)
	}

	config := &AppConfig{
		Port:            viper.GetInt("VANTAGE_PORT"),
		APIBaseURL:      viper.GetString("VANTAGE_API_URL"),
		RefreshInterval: refreshInterval,
		Period:          viper.GetString("VANTAGE_PERIOD"),
		Interval:        viper.GetString("VANTAGE_INTERVAL"),
		Storage: StorageConfig{
			Driver: viper.GetString("VANTAGE_STORAGE_DRIVER"),
			Path:   viper.GetString("VANTAGE_STORAGE_PATH"),
		},
		Telegram: TelegramConfig{
			Enabled: viper.GetBool("VANTAGE_TELEGRAM_ENABLED"),
			Token:   viper.GetString("VANTAGE_TELEGRAM_TOKEN"),
		},
		Watchboard: WatchboardConfig{
			Enabled:    viper.GetBool("VANTAGE_WATCHBOARD_ENABLED"),
			Spec:       viper.GetString("VANTAGE_WATCHBOARD_SPEC"),
			Categories: viper.GetStringSlice("VANTAGE_WATCHBOARD_CATEGORIES"),
		},
		MetricsEnabled: viper.GetBool("VANTAGE_METRICS_ENABLED"),
		LogLevel:       viper.GetString("VANTAGE_LOG_LEVEL"),
	}

	for _, user := range viper.GetIntSlice("VANTAGE_TELEGRAM_USERS") {
		config.Telegram.Users = append(config.Telegram.Users, int64(user))
	}

	if config.Telegram.Enabled && config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram is enabled but no token was provided")
	}

	return config, nil
}
