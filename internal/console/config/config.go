// Package config loads the console configuration from a YAML file, then lets
// environment variables (optionally from a .env file) override single keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "internal/console/config/config.yaml"

type Config struct {
	Environment  string        `yaml:"ENVIRONMENT"`
	HTTPPort     int           `yaml:"HTTP_PORT"`
	APIBaseURL   string        `yaml:"API_BASE_URL"`
	APITimeout   time.Duration `yaml:"API_TIMEOUT"`
	DBDriver     string        `yaml:"DB_DRIVER"`
	DBDSN        string        `yaml:"DB_DSN"`
	KafkaBrokers []string      `yaml:"KAFKA_BROKERS"`
	Topic        string        `yaml:"TOPIC"`
	JWTSecret    string        `yaml:"JWT_SECRET"`
	CORSOrigins  []string      `yaml:"CORS_ORIGINS"`
	PageSize     int           `yaml:"PAGE_SIZE"`
	SessionTTL   time.Duration `yaml:"SESSION_TTL"`
}

func defaults() Config {
	return Config{
		Environment: "production",
		HTTPPort:    8080,
		APITimeout:  15 * time.Second,
		DBDriver:    "sqlite",
		DBDSN:       "console.db",
		Topic:       "registry-audit",
		PageSize:    10,
		SessionTTL:  24 * time.Hour,
	}
}

// Load reads path (a missing file is not an error) and applies environment
// overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			*dst = splitList(v)
		}
	}
	num := func(key string, dst *int) error {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", key, v, e.ErrInvalidInput)
			}
			*dst = n
		}
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", key, v, e.ErrInvalidInput)
			}
			*dst = d
		}
		return nil
	}

	str("ENVIRONMENT", &c.Environment)
	str("API_BASE_URL", &c.APIBaseURL)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("TOPIC", &c.Topic)
	str("JWT_SECRET", &c.JWTSecret)
	list("KAFKA_BROKERS", &c.KafkaBrokers)
	list("CORS_ORIGINS", &c.CORSOrigins)
	return errors.Join(
		num("HTTP_PORT", &c.HTTPPort),
		num("PAGE_SIZE", &c.PageSize),
		dur("API_TIMEOUT", &c.APITimeout),
		dur("SESSION_TTL", &c.SessionTTL),
	)
}

// Validate reports the first missing or out of range setting.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return fmt.Errorf("API_BASE_URL is required: %w", e.ErrInvalidInput)
	case c.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is required: %w", e.ErrInvalidInput)
	case c.HTTPPort <= 0 || c.HTTPPort > 65535:
		return fmt.Errorf("HTTP_PORT %d out of range: %w", c.HTTPPort, e.ErrInvalidInput)
	case c.PageSize <= 0:
		return fmt.Errorf("PAGE_SIZE must be positive: %w", e.ErrInvalidInput)
	case c.APITimeout <= 0:
		return fmt.Errorf("API_TIMEOUT must be positive: %w", e.ErrInvalidInput)
	}
	return nil
}

func (c *Config) Development() bool {
	return c.Environment == "development"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
