package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	FCMEndpoint string
	FCMKey      string
	Env         string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		FCMEndpoint: getEnvWithDefault("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		FCMKey:      os.Getenv("FCM_SERVER_KEY"),
		Env:         getEnvWithDefault("ENV", "development"),
	}

	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, push notification dispatch is disabled")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
