package config

import (
	"fmt"
	"time"
)

// RequiredVars lists the variables the API refuses to start without.
// SECRET_KEY is the token signing secret.
var RequiredVars = []string{"DATABASE_URL", "SECRET_KEY"}

// Config holds API configuration loaded from the environment
type Config struct {
	Env  string
	Host string
	Port int

	DatabaseURL string

	SecretKey string
	TokenTTL  time.Duration

	AllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads the API configuration. It fails when a required variable is missing
// so that callers can abort startup before serving any request.
func Load() (*Config, error) {
	if err := ValidateEnv(RequiredVars); err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            GetEnvOrDefault("APP_ENV", "development"),
		Host:           GetEnvOrDefault("API_HOST", "localhost"),
		Port:           GetEnvInt("PORT", 8080),
		DatabaseURL:    GetEnvOrDefault("DATABASE_URL", ""),
		SecretKey:      GetEnvOrDefault("SECRET_KEY", ""),
		AllowedOrigins: GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		ReadTimeout:    GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:    GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}

	ttl, err := ParseEnvDuration("TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
