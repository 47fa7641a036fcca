// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DraftFile   = "file"
	DraftRedis  = "redis"
	DraftMemory = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Draft    DraftConfig
	Redis    RedisConfig
	Session  SessionConfig
	Logging  LoggingConfig
	Client   ClientConfig

	// TemplateCatalog is an optional YAML file replacing the built-in
	// template catalog.
	TemplateCatalog string
}

type ServerConfig struct {
	Port          int
	SecureCookies bool
}

type DatabaseConfig struct {
	Driver string
	Path   string
	URL    string
}

type DraftConfig struct {
	Backend string
	Dir     string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type LoggingConfig struct {
	Level string
}

type ClientConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

// Load reads .env (if any) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without reading
// .env or validating.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnvInt("PORT", 8080),
			SecureCookies: getEnvBool("COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:   getEnv("DB_PATH", "data/genfolio.db"),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Draft: DraftConfig{
			Backend: strings.ToLower(getEnv("DRAFT_BACKEND", DraftFile)),
			Dir:     getEnv("DRAFT_DIR", "data/drafts"),
			TTL:     getEnvDuration("DRAFT_TTL", 30*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			TTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
			Timeout:    getEnvDuration("API_TIMEOUT", 10*time.Second),
		},
		TemplateCatalog: getEnv("TEMPLATE_CATALOG", ""),
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}

	switch c.Draft.Backend {
	case DraftFile:
		if c.Draft.Dir == "" {
			return fmt.Errorf("DRAFT_DIR is required for the file draft backend")
		}
	case DraftRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis draft backend")
		}
	case DraftMemory:
	default:
		return fmt.Errorf("DRAFT_BACKEND must be one of file, redis, memory; got %q", c.Draft.Backend)
	}

	// An empty secret is allowed: the server then signs with a random one.
	if c.Session.Secret != "" && len(c.Session.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps LOG_LEVEL onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}

// SlogLevel is the configured level, defaulting to Info.
func (l LoggingConfig) SlogLevel() slog.Level {
	level, _ := ParseLevel(l.Level)
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
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
