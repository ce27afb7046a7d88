package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the main configuration struct that consolidates all sub-configs
type Config struct {
	Dashboard  DashboardConfig
	Download   DownloadConfig
	Log        LogConfig
	Session    SessionConfig
	Redis      RedisConfig
	Evaluation EvaluationConfig
	Database   DatabaseConfig
}

// Load reads all configuration from environment variables and returns the Config
func Load() *Config {
	return &Config{
		Dashboard:  loadDashboardConfig(),
		Download:   loadDownloadConfig(),
		Log:        loadLogConfig(),
		Session:    loadSessionConfig(),
		Redis:      loadRedisConfig(),
		Evaluation: loadEvaluationConfig(),
		Database:   loadDatabaseConfig(),
	}
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}
