package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that required configuration values are present and well-formed
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
		return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required")
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("invalid server port %q: %w", cfg.ServerPort, err)
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return fmt.Errorf("invalid database port %q: %w", cfg.DBPort, err)
	}
	if _, err := strconv.Atoi(cfg.RedisPort); err != nil {
		return fmt.Errorf("invalid redis port %q: %w", cfg.RedisPort, err)
	}

	if cfg.LLMTimeout <= 0 {
		return fmt.Errorf("LLM timeout must be positive")
	}

	return nil
}
