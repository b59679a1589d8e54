package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	RevalidatePolicyOverwrite = "overwrite"
	RevalidatePolicyReconcile = "reconcile"
)

type Config struct {
	PostgresAddress  string `koanf:"postgres_address"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUsername string `koanf:"postgres_username"`
	PostgresPassword string `koanf:"postgres_password"`

	HTTPPort string `koanf:"http_port"`
	// Path of the SQLite file backing the durable month cache.
	CachePath string `koanf:"cache_path"`

	CivilOffsetMinutes int           `koanf:"civil_offset_minutes"`
	CacheStaleAfter    time.Duration `koanf:"cache_stale_after"`
	PageLimit          int           `koanf:"page_limit"`
	RevalidatePolicy   string        `koanf:"revalidate_policy"`
	Workers            int           `koanf:"workers"`
	LogLevel           string        `koanf:"log_level"`
}

// Defaults match the docker compose setup.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"postgres_address":     "localhost",
		"postgres_port":        "5433",
		"postgres_db":          "postgres",
		"postgres_username":    "postgres",
		"postgres_password":    "testpassword",
		"http_port":            "9446",
		"cache_path":           "ledger-cache.db",
		"civil_offset_minutes": 480,
		"cache_stale_after":    "5m",
		"page_limit":           50,
		"revalidate_policy":    RevalidatePolicyOverwrite,
		"workers":              2,
		"log_level":            "info",
	}
}

// ProcessEnvironmentVariables builds the config from defaults, an optional
// YAML file named by LEDGER_CONFIG_FILE, and the environment (a .env file in
// the working directory is loaded first when present).
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv("LEDGER_CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	known := defaults()
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.CivilOffsetMinutes < -14*60 || c.CivilOffsetMinutes > 14*60 {
		return fmt.Errorf("civil_offset_minutes out of range: %d", c.CivilOffsetMinutes)
	}
	if c.CacheStaleAfter <= 0 {
		return fmt.Errorf("cache_stale_after must be positive: %s", c.CacheStaleAfter)
	}
	if c.PageLimit <= 0 {
		return fmt.Errorf("page_limit must be positive: %d", c.PageLimit)
	}
	if c.RevalidatePolicy != RevalidatePolicyOverwrite && c.RevalidatePolicy != RevalidatePolicyReconcile {
		return fmt.Errorf("unknown revalidate_policy %q", c.RevalidatePolicy)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %d", c.Workers)
	}
	return nil
}
