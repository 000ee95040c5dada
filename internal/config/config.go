// Package config reads service settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSqlite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var backends = []string{BackendMemory, BackendSqlite, BackendPostgres, BackendRedis}

type Config struct {
	Port         string `mapstructure:"PORT"`
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DBPath       string `mapstructure:"DB_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	SeedPath     string `mapstructure:"SEED_PATH"`
}

var defaults = map[string]string{
	"PORT":          "8080",
	"STORE_BACKEND": BackendSqlite,
	"DB_PATH":       "data/app.db",
	"DATABASE_URL":  "",
	"REDIS_URL":     "",
	"LOG_LEVEL":     "info",
	"LOG_FORMAT":    "json",
	"SEED_PATH":     "",
}

// Load reads .env files (missing files are ignored) and then the
// environment. Values already set in the environment win over .env.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: read env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the settings required by the chosen backend are set.
func (c Config) Validate() error {
	if !slices.Contains(backends, c.StoreBackend) {
		return fmt.Errorf("STORE_BACKEND %q is not one of %s", c.StoreBackend, strings.Join(backends, ", "))
	}

	var missing []string
	if strings.TrimSpace(c.Port) == "" {
		missing = append(missing, "PORT")
	}
	switch c.StoreBackend {
	case BackendSqlite:
		if strings.TrimSpace(c.DBPath) == "" {
			missing = append(missing, "DB_PATH")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			missing = append(missing, "REDIS_URL")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required for STORE_BACKEND=%s", strings.Join(missing, ", "), c.StoreBackend)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
