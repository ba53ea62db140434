package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Fetching
	FetchTimeout   time.Duration // per-neighborhood fetch budget
	PreviewTimeout time.Duration // source preview HTTP budget

	// Sessions
	SessionIdleTTL time.Duration

	// Definition enrichment (optional, disabled without an API key)
	EnrichBaseURL string
	EnrichAPIKey  string
	EnrichModel   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		Neo4jURI:       getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", "password"),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		PreviewTimeout: getEnvDuration("PREVIEW_TIMEOUT", 5*time.Second),
		SessionIdleTTL: getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		EnrichBaseURL:  getEnv("ENRICH_BASE_URL", "https://api.openai.com"),
		EnrichAPIKey:   getEnv("ENRICH_API_KEY", ""),
		EnrichModel:    getEnv("ENRICH_MODEL", "gpt-4o-mini"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	// Enrichment settings are optional; the enricher stays disabled
	// without an API key.
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
