package config

import (
	"github.com/spf13/viper"
)

const defaultTargetURL = "https://www.rockefellercenter.com/buy-tickets/top-of-the-rock/"

// Config stores all configuration for the application.
type Config struct {
	TargetURL          string `mapstructure:"TARGET_URL"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	PostgresURL        string `mapstructure:"POSTGRES_URL"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	Headless           bool   `mapstructure:"HEADLESS"`
	ScrapeWorkers      int    `mapstructure:"SCRAPE_WORKERS"`
	ScrapeTimeout      int    `mapstructure:"SCRAPE_TIMEOUT"`
	SettleDelay        int    `mapstructure:"SETTLE_DELAY"`
	MaxRetries         int    `mapstructure:"MAX_RETRIES"`
	DeduplicationHours int    `mapstructure:"DEDUPLICATION_HOURS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production.
	_ = viper.ReadInConfig()

	viper.SetDefault("TARGET_URL", defaultTargetURL)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("SCRAPE_WORKERS", 2)
	viper.SetDefault("SCRAPE_TIMEOUT", 90) // in seconds
	viper.SetDefault("SETTLE_DELAY", 12)   // in seconds, lets the widget's async calls land
	viper.SetDefault("MAX_RETRIES", 2)
	viper.SetDefault("DEDUPLICATION_HOURS", 12)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
