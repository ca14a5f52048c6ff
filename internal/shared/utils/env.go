package utils

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the environment variable or the fallback when it is unset or empty
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func GetEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(GetEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return value
}

func GetEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvDuration reads an integer count of unit, e.g. SERVER_READ_TIMEOUT_SECONDS=15
func GetEnvDuration(key string, fallback int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvInt(key, fallback)) * unit
}
