package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/subosito/gotenv"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Port        string   `env:"APP_PORT" envDefault:"8080"`
	AppEnv      string   `env:"APP_ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"debug"`
	LogDir      string   `env:"LOG_DIR" envDefault:"./logging/logs"`
	Storage     string   `env:"STORAGE" envDefault:"mysql"`
	CorsOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	DB          DB
}

type DB struct {
	User    string `env:"DB_USER"`
	Pass    string `env:"DB_PASS"`
	Host    string `env:"DB_HOST"`
	Port    string `env:"DB_PORT" envDefault:"3306"`
	Name    string `env:"DB_NAME" envDefault:"smartsave"`
	FullDSN string `env:"FULL_DSN"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Storage = strings.ToLower(cfg.Storage)
	if cfg.Storage != StorageMySQL && cfg.Storage != StorageMemory {
		return Config{}, fmt.Errorf("unknown storage %q, expected %q or %q", cfg.Storage, StorageMySQL, StorageMemory)
	}
	if cfg.Storage == StorageMySQL && cfg.DB.FullDSN == "" {
		if cfg.DB.User == "" || cfg.DB.Pass == "" || cfg.DB.Host == "" {
			return Config{}, fmt.Errorf("missing required DB environment variables")
		}
	}
	return cfg, nil
}
