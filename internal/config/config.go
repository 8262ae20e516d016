package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from config.yaml
// with DKT_-prefixed environment variable overrides.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Insights  InsightsConfig  `mapstructure:"insights"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// CatalogConfig points at an optional skill catalog file. When empty, the
// built-in seed catalog is used.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig selects and configures the backing database.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite or mysql
	Path     string `mapstructure:"path"` // sqlite file path; empty = default data dir
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// InsightsConfig tunes the insight aggregator and its cache.
type InsightsConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	SnapshotsKept int           `mapstructure:"snapshots_kept"`
}

// SchedulerConfig tunes the spaced-repetition scheduler.
type SchedulerConfig struct {
	PageSize int `mapstructure:"page_size"` // daily review queue cap
}

// Load reads configuration from the given file (optional) plus environment.
// Missing file is not an error; defaults make the service runnable as-is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DKT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	// Registered empty so env-only overrides (DKT_DATABASE_PASSWORD etc.)
	// are visible to Unmarshal; AutomaticEnv alone only covers known keys.
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("insights.cache_ttl", 6*time.Hour)
	v.SetDefault("insights.read_timeout", 3*time.Second)
	v.SetDefault("insights.snapshots_kept", 10)
	v.SetDefault("scheduler.page_size", 20)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.Type == "mysql" && c.Database.Name == "" {
		return fmt.Errorf("database.name is required for mysql")
	}
	if c.Insights.CacheTTL <= 0 {
		return fmt.Errorf("insights.cache_ttl must be positive")
	}
	if c.Scheduler.PageSize <= 0 {
		return fmt.Errorf("scheduler.page_size must be positive")
	}
	return nil
}

// GetServerAddr returns the host:port the HTTP server listens on.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN builds the DSN for the configured database type.
func (c *Config) GetDatabaseDSN() (string, error) {
	switch c.Database.Type {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name), nil
	case "sqlite":
		if c.Database.Path != "" {
			return c.Database.Path, nil
		}
		return DefaultDBPath()
	default:
		return "", fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
}

// DefaultDBPath resolves the sqlite file path in priority order:
// 1. DKT_DB environment variable
// 2. $XDG_DATA_HOME/dkt/dkt.db
// 3. ~/.local/share/dkt/dkt.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("DKT_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "dkt", "dkt.db"), nil
}
