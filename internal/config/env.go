package config

import (
	"fmt"
	"os"
	"strconv"
)

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an environment variable as an integer.
// Returns the default value if the variable is not set, and an error naming
// the variable if it is set but not an integer.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s=%q is not an integer", key, value)
	}
	return intValue, nil
}

// parseInt64Env parses an environment variable as an int64.
// Same rules as parseIntEnv.
func parseInt64Env(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s=%q is not an integer", key, value)
	}
	return intValue, nil
}
