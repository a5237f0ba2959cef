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
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// Salon scheduling defaults.
	SalonTimezone     string `mapstructure:"SALON_TIMEZONE"`
	OpenMinute        int    `mapstructure:"OPEN_MINUTE"`         // minutes from midnight, e.g. 540 for 9:00
	CloseMinute       int    `mapstructure:"CLOSE_MINUTE"`        // e.g. 1140 for 19:00
	SlotIntervalMins  int    `mapstructure:"SLOT_INTERVAL_MINS"`  // scheduling granularity
	SessionTTLMins    int    `mapstructure:"SESSION_TTL_MINS"`    // conversation context expiry
	SessionCacheSecs  int    `mapstructure:"SESSION_CACHE_SECS"`  // in-process read cache in front of Redis
	ReminderLeadHours int    `mapstructure:"REMINDER_LEAD_HOURS"` // how far ahead of an appointment the reminder fires

	// Parser tuning. ASSUME_PM_MAX_HOUR treats a bare hour 1..N with no
	// am/pm marker as PM (salon traffic skews afternoon); 0 disables.
	AssumePMMaxHour     int `mapstructure:"ASSUME_PM_MAX_HOUR"`
	CategorySpecificity int `mapstructure:"CATEGORY_SPECIFICITY_MARGIN"`

	// Gemini API key for the escalation assistant; empty disables it.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
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
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_REMINDER_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SALON_TIMEZONE", "America/New_York")
	viper.SetDefault("OPEN_MINUTE", 540)
	viper.SetDefault("CLOSE_MINUTE", 1140)
	viper.SetDefault("SLOT_INTERVAL_MINS", 30)
	viper.SetDefault("SESSION_TTL_MINS", 30)
	viper.SetDefault("SESSION_CACHE_SECS", 30)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("ASSUME_PM_MAX_HOUR", 7)
	viper.SetDefault("CATEGORY_SPECIFICITY_MARGIN", 3)
	viper.SetDefault("GEMINI_API_KEY", "")

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
