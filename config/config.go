package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Dialogue engine tuning.
	ServiceOpenHour   int    `mapstructure:"SERVICE_OPEN_HOUR"`
	ServiceCloseHour  int    `mapstructure:"SERVICE_CLOSE_HOUR"`
	MaxSlotAttempts   int    `mapstructure:"MAX_SLOT_ATTEMPTS"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	MaxPartySize      int    `mapstructure:"MAX_PARTY_SIZE"`
	FallbackPrompt    string `mapstructure:"FALLBACK_PROMPT"`
	FallbackAction    string `mapstructure:"FALLBACK_ACTION"`
	TransferNumber    string `mapstructure:"TRANSFER_NUMBER"`

	// Reminder scheduling.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
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
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SERVICE_OPEN_HOUR", 9)
	viper.SetDefault("SERVICE_CLOSE_HOUR", 22)
	viper.SetDefault("MAX_SLOT_ATTEMPTS", 3)
	viper.SetDefault("SESSION_TTL_MINUTES", 10)
	viper.SetDefault("MAX_PARTY_SIZE", 20)
	viper.SetDefault("FALLBACK_PROMPT", "I'm sorry, I'm having trouble understanding you today. Please call back later, or reach our staff directly. Goodbye.")
	viper.SetDefault("FALLBACK_ACTION", "hangup")
	viper.SetDefault("TRANSFER_NUMBER", "")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 120)

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
