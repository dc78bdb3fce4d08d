package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development)
	// In production environment variables are set directly
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// NewLogger builds a development logger when APP_ENV=development and a
// production JSON logger otherwise.
func NewLogger() (*zap.Logger, error) {
	if GetEnv("APP_ENV", "production") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv(log *zap.Logger) error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	warnings := map[string]string{
		"FRONTEND_URL": "CORS may not work correctly",
		"ADMIN_URL":    "admin panel origin not allowed by CORS",
		"SMTP_HOST":    "order emails will not be sent",
		"SMTP_PORT":    "order emails will not be sent",
		"SMTP_FROM":    "order emails will not be sent",
	}
	for key, impact := range warnings {
		if os.Getenv(key) == "" {
			log.Warn("environment variable not set", zap.String("key", key), zap.String("impact", impact))
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDurationEnv parses values like "15s" or "2h". Unparseable or
// non-positive values fall back to the default.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetIntEnv(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
