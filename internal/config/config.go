package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults used when neither the environment nor the config file sets a value.
const (
	DefaultServerPort  = ":8080"
	DefaultProvider    = "openrouter"
	DefaultModel       = "deepseek/deepseek-chat-v3.1:free"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// Config holds application configuration loaded from environment and file.
// Priority: CLI flags → Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// AdminToken guards /api/admin routes; empty disables the check
	AdminToken string

	// DefaultProvider is used when a request names no provider
	DefaultProvider string

	// DefaultModel is used when a request names no model
	DefaultModel string

	// Stream requests incremental delivery by default
	Stream bool

	Temperature float64
	MaxTokens   int

	// HistoryTokenBudget caps the prompt sent for stored conversations (0 = unlimited)
	HistoryTokenBudget int

	LogLevel  string
	LogFormat string

	// Credentials maps provider id to an API key from the config file
	Credentials map[string]string

	// Models contains model alias mappings
	Models []ModelAlias
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() (*Config, error) {
	fileConfig, err := LoadFile()
	if err != nil {
		return nil, err
	}
	return fromFile(fileConfig), nil
}

func fromFile(fileConfig *FileConfig) *Config {
	creds := make(map[string]string, len(fileConfig.Credentials))
	for k, v := range fileConfig.Credentials {
		creds[strings.ToLower(k)] = v
	}

	return &Config{
		ServerPort:         getEnvOrFile("GOATCHAT_SERVER_PORT", fileConfig.ServerPort, DefaultServerPort),
		AdminToken:         getEnvOrFile("GOATCHAT_ADMIN_TOKEN", fileConfig.AdminToken, ""),
		DefaultProvider:    getEnvOrFile("GOATCHAT_DEFAULT_PROVIDER", fileConfig.DefaultProvider, DefaultProvider),
		DefaultModel:       getEnvOrFile("GOATCHAT_DEFAULT_MODEL", fileConfig.DefaultModel, DefaultModel),
		Stream:             getEnvBoolOrFile("GOATCHAT_STREAM", fileConfig.Stream, true),
		Temperature:        getEnvFloatOrFile("GOATCHAT_TEMPERATURE", fileConfig.Temperature, DefaultTemperature),
		MaxTokens:          getEnvIntOrFile("GOATCHAT_MAX_TOKENS", fileConfig.MaxTokens, DefaultMaxTokens),
		HistoryTokenBudget: getEnvIntOrFile("GOATCHAT_HISTORY_TOKEN_BUDGET", fileConfig.HistoryTokenBudget, 0),
		LogLevel:           getEnvOrFile("GOATCHAT_LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:          getEnvOrFile("GOATCHAT_LOG_FORMAT", fileConfig.LogFormat, "text"),
		Credentials:        creds,
		Models:             fileConfig.Models,
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order).
// Unparsable env values are ignored.
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvFloatOrFile returns env float, file float, or default (in priority order)
func getEnvFloatOrFile(key string, fileValue *float64, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
