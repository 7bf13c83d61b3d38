package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type OpenRouterConfig struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
}

type AuthConfig struct {
	JWTSecret      string
	TokenExpiryHrs int
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories RepositoriesConfig
	OpenRouter   OpenRouterConfig
	Auth         AuthConfig
	ServerPort   string
	Debug        bool
}

// Load reads configuration from the environment. Required secrets fail fast so
// a misconfigured process never starts serving.
func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tripforge"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:      getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			APIKey:       getEnvOrDefault("OPENROUTER_API_KEY", ""),
			DefaultModel: getEnvOrDefault("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct:free"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnvOrDefault("JWT_SECRET_KEY", ""),
			TokenExpiryHrs: 24,
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
		Debug:      os.Getenv("DEBUG") == "true",
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.OpenRouter.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
