package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	CartAPIURL   string
	CartAPIToken string
	HTTPTimeout  time.Duration
}

func Load() Config {
	return Config{
		AppEnv:       getEnv("APP_ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CartAPIURL:   getEnv("CART_API_URL", "http://localhost:4000/api"),
		CartAPIToken: getEnv("CART_API_TOKEN", ""),
		HTTPTimeout:  time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
