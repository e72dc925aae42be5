package config

import (
	"os"
	"strconv"
)

// Config is everything the server reads from the environment. godotenv is
// loaded in main before this runs.
type Config struct {
	Port           string
	Prod           bool
	AllowedOrigins []string
	MaxChatHistory int
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Prod:           os.Getenv("PROD") == "true",
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},
		MaxChatHistory: getEnvInt("MAX_CHAT_HISTORY", 100),
	}
}

func getEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
