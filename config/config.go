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

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCheckpointDB  int    `mapstructure:"REDIS_CHECKPOINT_DB"`
	RedisClaimDB       int    `mapstructure:"REDIS_CLAIM_DB"`
	RedisNotifyQueueDB int    `mapstructure:"REDIS_NOTIFY_QUEUE_DB"`

	// MongoDB configuration.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Upstream inventory/booking API.
	InventoryAPIBaseURL string `mapstructure:"INVENTORY_API_BASE_URL"`
	InventoryAPIKey     string `mapstructure:"INVENTORY_API_KEY"`

	// Payment widget publishable keys, one per environment.
	PaymentWidgetSandboxKey    string `mapstructure:"PAYMENT_WIDGET_SANDBOX_KEY"`
	PaymentWidgetProductionKey string `mapstructure:"PAYMENT_WIDGET_PRODUCTION_KEY"`

	// Storefront origin used to build payment return URLs and the CORS policy.
	StorefrontBaseURL string `mapstructure:"STOREFRONT_BASE_URL"`

	// Mail relay used for confirmation emails.
	MailRelayURL string `mapstructure:"MAIL_RELAY_URL"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
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
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CHECKPOINT_DB", 0)
	viper.SetDefault("REDIS_CLAIM_DB", 1)
	viper.SetDefault("REDIS_NOTIFY_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("INVENTORY_API_BASE_URL", "https://api.sandbox.inventory.example.com/v2")
	viper.SetDefault("STOREFRONT_BASE_URL", "http://localhost:3000")
	viper.SetDefault("MAIL_FROM", "bookings@wanderstay.example.com")

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
