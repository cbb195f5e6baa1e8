package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string
	DBPath   string

	// RedisAddr enables the product cache when non-empty.
	RedisAddr    string
	CacheTTLSecs int

	JWTSecret string

	LogLevel string

	// Admin account seeded at startup when both values are set.
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	return Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "./data/farmdirect.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CacheTTLSecs:  getEnvInt("CACHE_TTL_SECS", 300),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
