package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
		// PublicURL is the externally visible base URL used when building avatar links.
		// Empty means http://localhost:<port>.
		PublicURL string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsPath  string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Storage struct {
		AvatarsPath  string `yaml:"avatars_path" env:"AVATARS_PATH"`
		PreviewWidth int    `yaml:"preview_width" env:"AVATAR_PREVIEW_WIDTH"`
	} `yaml:"storage"`

	// Redis is optional. When Addr is empty avatar uploads are serialized in-process.
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		LockTTL  string `yaml:"lock_ttl" env:"REDIS_LOCK_TTL"`
	} `yaml:"redis"`

	Demo struct {
		PrintDelay string `yaml:"print_delay" env:"DEMO_PRINT_DELAY"`
	} `yaml:"demo"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; env vars alone are enough to run.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hogwarts"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsPath = "migrations"
	config.Database.Seed = true

	config.Storage.AvatarsPath = "avatars"
	config.Storage.PreviewWidth = 100

	config.Redis.LockTTL = "30s"

	config.Demo.PrintDelay = "3s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if strings.TrimSpace(config.Storage.AvatarsPath) == "" {
		return fmt.Errorf("avatars path is required")
	}

	if config.Storage.PreviewWidth <= 0 {
		return fmt.Errorf("preview width must be positive, got %d", config.Storage.PreviewWidth)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	if _, err := time.ParseDuration(config.Redis.LockTTL); err != nil {
		return fmt.Errorf("invalid redis lock ttl format: %w", err)
	}

	if _, err := time.ParseDuration(config.Demo.PrintDelay); err != nil {
		return fmt.Errorf("invalid demo print delay format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// BaseURL returns the public base URL of the service without a trailing slash.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}
