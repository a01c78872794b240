package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort         string            `toml:"server_port"`
	AdminToken         string            `toml:"admin_token"`
	DefaultProvider    string            `toml:"default_provider"`
	DefaultModel       string            `toml:"default_model"`
	Stream             *bool             `toml:"stream"`
	Temperature        *float64          `toml:"temperature"`
	MaxTokens          *int              `toml:"max_tokens"`
	HistoryTokenBudget *int              `toml:"history_token_budget"`
	LogLevel           string            `toml:"log_level"`
	LogFormat          string            `toml:"log_format"`
	Credentials        map[string]string `toml:"credentials"`
	Models             []ModelAlias      `toml:"models"`
}

// ModelAlias maps a short slug to a provider and model combination.
type ModelAlias struct {
	Slug     string `toml:"slug"`
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// ConfigPath returns the path to the config file (~/.goatchat/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom loads configuration from a specific TOML file.
func LoadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Goatchat Configuration
# server_port = ":8080"
# admin_token = ""          # bearer token for /api/admin, empty allows all
# default_provider = "openrouter"
# default_model = "deepseek/deepseek-chat-v3.1:free"
# stream = true
# temperature = 0.7
# max_tokens = 4000
# history_token_budget = 0   # 0 keeps the whole conversation
# log_level = "info"         # debug, info, warn, error
# log_format = "text"        # text or json

# Default credentials per provider. Environment variables such as
# OPENROUTER_API_KEY take precedence, stored credentials (goatchat creds add)
# are used when neither is set.
# [credentials]
# openrouter = "sk-or-..."
# gemini = "AIza..."

# Model aliases - map short names to provider/model combinations
# [[models]]
# slug = "claude"
# provider = "anthropic"
# model = "claude-3-haiku"

# [[models]]
# slug = "flash"
# provider = "gemini"
# model = "gemini-2.0-flash"
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
