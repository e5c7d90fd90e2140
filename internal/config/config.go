package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Catalog sources.
const (
	SourceHTTP = "http"
	SourceFile = "file"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Session   SessionConfig   `yaml:"session"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// StoreConfig selects the backend holding state lists and reminders.
type StoreConfig struct {
	Driver         string `yaml:"driver"`
	SQLitePath     string `yaml:"sqlite_path"`
	MigrationsPath string `yaml:"migrations_path"`
	ListName       string `yaml:"list_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// CatalogConfig points at the workout content API or a local YAML file.
type CatalogConfig struct {
	Source            string        `yaml:"source"`
	BaseURL           string        `yaml:"base_url"`
	Token             string        `yaml:"token"`
	File              string        `yaml:"file"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

type ReminderConfig struct {
	Locale           string        `yaml:"locale"`
	DispatchInterval time.Duration `yaml:"dispatch_interval"`
	WebhookURL       string        `yaml:"webhook_url"`
}

type SessionConfig struct {
	// IdleTimeout drops in-memory sessions not touched for this long.
	// Zero keeps them until restart.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies defaults and environment
// variable overrides. Env vars use the prefix MEUTREINO_ and
// underscore-separated paths:
//
//	MEUTREINO_SERVER_HOST, MEUTREINO_SERVER_PORT, MEUTREINO_AUTH_API_KEY,
//	MEUTREINO_STORE_DRIVER, MEUTREINO_STORE_SQLITE_PATH,
//	MEUTREINO_DB_HOST, MEUTREINO_DB_PORT, MEUTREINO_DB_NAME,
//	MEUTREINO_DB_USER, MEUTREINO_DB_PASSWORD, MEUTREINO_DB_SSLMODE,
//	MEUTREINO_REDIS_ADDR, MEUTREINO_REDIS_PASSWORD,
//	MEUTREINO_CATALOG_BASE_URL, MEUTREINO_CATALOG_TOKEN,
//	MEUTREINO_REMINDER_WEBHOOK_URL, MEUTREINO_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "data/meutreino.db"
	}
	if cfg.Store.MigrationsPath == "" {
		cfg.Store.MigrationsPath = "migrations"
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceHTTP
	}
	if cfg.Catalog.RequestsPerSecond == 0 {
		cfg.Catalog.RequestsPerSecond = 5
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 10 * time.Second
	}
	if cfg.Reminder.Locale == "" {
		cfg.Reminder.Locale = "pt-BR"
	}
	if cfg.Reminder.DispatchInterval == 0 {
		cfg.Reminder.DispatchInterval = 5 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEUTREINO_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MEUTREINO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MEUTREINO_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("MEUTREINO_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("MEUTREINO_STORE_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("MEUTREINO_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MEUTREINO_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MEUTREINO_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MEUTREINO_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MEUTREINO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MEUTREINO_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("MEUTREINO_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MEUTREINO_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MEUTREINO_CATALOG_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("MEUTREINO_CATALOG_TOKEN"); v != "" {
		cfg.Catalog.Token = v
	}
	if v := os.Getenv("MEUTREINO_REMINDER_WEBHOOK_URL"); v != "" {
		cfg.Reminder.WebhookURL = v
	}
	if v := os.Getenv("MEUTREINO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required")
		}
	default:
		return fmt.Errorf("store.driver %q is not one of postgres, sqlite, redis", c.Store.Driver)
	}

	switch c.Catalog.Source {
	case SourceHTTP:
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog.base_url is required")
		}
		if c.Catalog.Token == "" {
			return fmt.Errorf("catalog.token is required")
		}
	case SourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("catalog.file is required")
		}
	default:
		return fmt.Errorf("catalog.source %q is not one of http, file", c.Catalog.Source)
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
