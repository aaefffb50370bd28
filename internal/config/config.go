package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	PostgresURL      string `mapstructure:"POSTGRES_URL"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	ServerPort       string `mapstructure:"SERVER_PORT"`
	ScrapeAPIURL     string `mapstructure:"SCRAPE_API_URL"`
	ScrapeAPIKey     string `mapstructure:"SCRAPE_API_KEY"`
	AIGatewayURL     string `mapstructure:"AI_GATEWAY_URL"`
	AIAPIKey         string `mapstructure:"AI_API_KEY"`
	AIModel          string `mapstructure:"AI_MODEL"`
	AuditWorkers     int    `mapstructure:"AUDIT_WORKERS"`
	ScrapeTimeout    int    `mapstructure:"SCRAPE_TIMEOUT"`
	ScoreTimeout     int    `mapstructure:"SCORE_TIMEOUT"`
	ScrapeCacheHours int    `mapstructure:"SCRAPE_CACHE_HOURS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SCRAPE_API_URL", "https://api.firecrawl.dev/v1/scrape")
	viper.SetDefault("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1")
	viper.SetDefault("AI_MODEL", "google/gemini-3-flash-preview")
	viper.SetDefault("AUDIT_WORKERS", 4)
	viper.SetDefault("SCRAPE_TIMEOUT", 30) // in seconds
	viper.SetDefault("SCORE_TIMEOUT", 60)  // in seconds
	viper.SetDefault("SCRAPE_CACHE_HOURS", 24)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
