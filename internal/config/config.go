package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Auth        AuthConfig      `yaml:"auth"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Session     SessionConfig   `yaml:"session"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTExpiry time.Duration `yaml:"-"`
	Issuer    string        `yaml:"issuer"`
}

// UnmarshalYAML parses jwt_expiry as a Go duration string ("1h", "90m").
func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		JWTSecret string `yaml:"jwt_secret"`
		JWTExpiry string `yaml:"jwt_expiry"`
		Issuer    string `yaml:"issuer"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.JWTSecret = raw.JWTSecret
	a.Issuer = raw.Issuer
	if raw.JWTExpiry != "" {
		parsed, err := time.ParseDuration(raw.JWTExpiry)
		if err != nil {
			return fmt.Errorf("parse jwt_expiry: %w", err)
		}
		a.JWTExpiry = parsed
	}
	return nil
}

type RateLimitConfig struct {
	PublicPerMinute int `yaml:"public_per_minute"`
	LoginPerMinute  int `yaml:"login_per_minute"`
}

// SessionConfig controls the destructive demo-data reset. ResetOnStart
// truncates every table when the server boots; it must never be enabled
// against a database holding data anyone cares about.
type SessionConfig struct {
	ResetOnStart bool `yaml:"reset_on_start"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

func Load() (Config, error) {
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv builds a Config from environment variables without validating it.
// Callers that overlay a config file validate the merged result instead.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
			MinConnections: getEnvInt("DATABASE_MIN_CONNECTIONS", 2),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,
			Issuer:    getEnv("JWT_ISSUER", "tickethub"),
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 120),
			LoginPerMinute:  getEnvInt("RATE_LIMIT_LOGIN", 10),
		},
		Session: SessionConfig{
			ResetOnStart: getEnvBool("SESSION_RESET_ON_START", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvBool("TRACING_ENABLED", false),
			Exporter:     getEnv("TRACING_EXPORTER", "stdout"),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "tickethub-server"),
			OTLPEndpoint: getEnv("TRACING_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// LoadFile reads a YAML config file and overlays environment variables on
// top of it. Env vars win so deployments can keep secrets out of the file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg = overlayEnv(cfg)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.JWTExpiry <= 0 {
		return fmt.Errorf("JWT expiry must be positive")
	}
	return nil
}

func overlayEnv(cfg Config) Config {
	env := FromEnv()
	if os.Getenv("SERVER_HOST") != "" {
		cfg.Server.Host = env.Server.Host
	}
	if os.Getenv("SERVER_PORT") != "" {
		cfg.Server.Port = env.Server.Port
	}
	if env.Database.URL != "" {
		cfg.Database.URL = env.Database.URL
	}
	if os.Getenv("DATABASE_MAX_CONNECTIONS") != "" {
		cfg.Database.MaxConnections = env.Database.MaxConnections
	}
	if os.Getenv("DATABASE_MIN_CONNECTIONS") != "" {
		cfg.Database.MinConnections = env.Database.MinConnections
	}
	if env.Auth.JWTSecret != "" {
		cfg.Auth.JWTSecret = env.Auth.JWTSecret
	}
	if os.Getenv("JWT_EXPIRY_MINUTES") != "" {
		cfg.Auth.JWTExpiry = env.Auth.JWTExpiry
	}
	if os.Getenv("JWT_ISSUER") != "" {
		cfg.Auth.Issuer = env.Auth.Issuer
	}
	if os.Getenv("RATE_LIMIT_PUBLIC") != "" {
		cfg.RateLimit.PublicPerMinute = env.RateLimit.PublicPerMinute
	}
	if os.Getenv("RATE_LIMIT_LOGIN") != "" {
		cfg.RateLimit.LoginPerMinute = env.RateLimit.LoginPerMinute
	}
	if os.Getenv("TRACING_ENABLED") != "" {
		cfg.Tracing.Enabled = env.Tracing.Enabled
	}
	if os.Getenv("TRACING_EXPORTER") != "" {
		cfg.Tracing.Exporter = env.Tracing.Exporter
	}
	if os.Getenv("TRACING_SERVICE_NAME") != "" {
		cfg.Tracing.ServiceName = env.Tracing.ServiceName
	}
	if os.Getenv("TRACING_OTLP_ENDPOINT") != "" {
		cfg.Tracing.OTLPEndpoint = env.Tracing.OTLPEndpoint
	}
	if os.Getenv("TRACING_SAMPLE_RATE") != "" {
		cfg.Tracing.SampleRate = env.Tracing.SampleRate
	}
	if os.Getenv("LOG_LEVEL") != "" {
		cfg.Logging.Level = env.Logging.Level
	}
	if os.Getenv("LOG_FORMAT") != "" {
		cfg.Logging.Format = env.Logging.Format
	}
	if os.Getenv("SESSION_RESET_ON_START") != "" {
		cfg.Session.ResetOnStart = env.Session.ResetOnStart
	}
	if os.Getenv("ENVIRONMENT") != "" {
		cfg.Environment = env.Environment
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
