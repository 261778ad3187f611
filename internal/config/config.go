package config

import (
	"os"
	"strconv"
	"time"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Output   OutputConfig
	Database DatabaseConfig
	AI       AIConfig
	Server   ServerConfig
}

// DataConfig holds input settings
type DataConfig struct {
	InputFile string
}

// OutputConfig holds run artifact settings
type OutputConfig struct {
	BaseDir string
}

// DatabaseConfig holds optional run persistence settings
type DatabaseConfig struct {
	URL string
}

// AIConfig holds the optional LLM narrator settings
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ServerConfig holds results server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     loadDataConfig(),
		Output:   loadOutputConfig(),
		Database: loadDatabaseConfig(),
		AI:       loadAIConfig(),
		Server:   loadServerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDataConfig() DataConfig {
	return DataConfig{
		InputFile: os.Getenv("DATA_FILE"),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		BaseDir: getEnvOrDefault("OUTPUT_DIR", "outputs"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}
}

func loadAIConfig() AIConfig {
	return AIConfig{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:   getEnvIntOrDefault("AI_MAX_TOKENS", 2000),
		Temperature: getEnvFloatOrDefault("AI_TEMPERATURE", 0.2),
		Timeout:     time.Duration(getEnvIntOrDefault("AI_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("SERVER_PORT", "8080"),
	}
}

func validateConfig(config *Config) error {
	if config.Output.BaseDir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR cannot be empty")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("AI_MAX_TOKENS must be positive")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("AI_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
