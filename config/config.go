package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration (event dedup store and refresh task queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Reply generator (Gemini).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Outbound SMS gateway.
	SMSGatewayURL string `mapstructure:"SMS_GATEWAY_URL"`
	SMSFromNumber string `mapstructure:"SMS_FROM_NUMBER"`

	// Availability calendar.
	CalendarHorizonDays int     `mapstructure:"CALENDAR_HORIZON_DAYS"`
	CalendarOccupancy   float64 `mapstructure:"CALENDAR_OCCUPANCY"`
	CalendarRefreshCron string  `mapstructure:"CALENDAR_REFRESH_CRON"`

	// Webhook event idempotency.
	EventDedupBackend string `mapstructure:"EVENT_DEDUP_BACKEND"` // "memory" or "redis"
	EventDedupTTLMin  int    `mapstructure:"EVENT_DEDUP_TTL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("SMS_GATEWAY_URL", "")
	viper.SetDefault("SMS_FROM_NUMBER", "")
	viper.SetDefault("CALENDAR_HORIZON_DAYS", 30)
	viper.SetDefault("CALENDAR_OCCUPANCY", 0.8)
	viper.SetDefault("CALENDAR_REFRESH_CRON", "")
	viper.SetDefault("EVENT_DEDUP_BACKEND", "memory")
	viper.SetDefault("EVENT_DEDUP_TTL_MIN", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
