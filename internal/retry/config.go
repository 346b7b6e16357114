package retry

import (
	"os"
	"strconv"
	"time"
)

// Config holds retry configuration for remote history calls
type Config struct {
	Enabled      bool          // Enable/disable retry mechanism
	MaxRetries   int           // Maximum number of retry attempts
	InitialDelay time.Duration // Initial delay before first retry
	MaxDelay     time.Duration // Maximum delay between retries
}

// DefaultConfig is used when nothing is set in the environment
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MaxRetries:   5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// LoadConfig loads retry configuration from environment variables
func LoadConfig() Config {
	def := DefaultConfig()
	return Config{
		Enabled:      getEnvAsBool("RETRY_ENABLED", def.Enabled),
		MaxRetries:   getEnvAsInt("RETRY_MAX_RETRIES", def.MaxRetries),
		InitialDelay: time.Duration(getEnvAsInt("RETRY_INITIAL_DELAY_MS", int(def.InitialDelay.Milliseconds()))) * time.Millisecond,
		MaxDelay:     time.Duration(getEnvAsInt("RETRY_MAX_DELAY_MS", int(def.MaxDelay.Milliseconds()))) * time.Millisecond,
	}
}

// Helper: get bool from env
func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper: get int from env
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
