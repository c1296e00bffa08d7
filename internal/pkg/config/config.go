package config

import (
	"fmt"
	"os"
	"strconv"
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

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig controls the session cookie and the TTL applied to
// session keys in redis. MaxAgeMS is in milliseconds, matching the
// cookie max-age recorded inside each session payload.
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAgeMS   int64
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

type Config struct {
	Repositories RepositoriesConfig
	Session      SessionConfig
	ServerPort   string
}

const defaultSessionMaxAgeMS = 24 * 60 * 60 * 1000 // 1 day

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "sarayu_admin"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
			Redis: RedisConfig{
				Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
				Port:     getEnvOrDefault("REDIS_PORT", "6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvIntOrDefault("REDIS_DB", 0),
			},
		},
		Session: SessionConfig{
			CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "sessionId"),
			Secure:     getEnvOrDefault("SESSION_COOKIE_SECURE", "false") == "true",
			MaxAgeMS:   getEnvInt64OrDefault("SESSION_MAX_AGE_MS", defaultSessionMaxAgeMS),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "5000"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
