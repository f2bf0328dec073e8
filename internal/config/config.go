package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix               = "YRNALONE"
	defaultHTTPAddress      = "127.0.0.1:8080"
	defaultDatabasePath     = "yrnalone.db"
	defaultLogLevel         = "info"
	defaultStorageBackend   = StorageSQLite
	defaultStorageNamespace = "yrnalone"
	defaultRedisAddress     = "127.0.0.1:6379"
	defaultTimezone         = "Local"
	defaultLanguage         = "en"
	defaultDisplayName      = "Friend"
)

// Storage backends accepted by storage.backend.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// AppConfig captures runtime configuration for the companion service.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	LogLevel         string
	LogFile          string
	StorageBackend   string
	StorageNamespace string
	RedisAddress     string
	Timezone         string
	Language         string
	DisplayName      string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.file", "")
	configViper.SetDefault("storage.backend", defaultStorageBackend)
	configViper.SetDefault("storage.namespace", defaultStorageNamespace)
	configViper.SetDefault("redis.address", defaultRedisAddress)
	configViper.SetDefault("app.timezone", defaultTimezone)
	configViper.SetDefault("app.language", defaultLanguage)
	configViper.SetDefault("app.display_name", defaultDisplayName)
}

// LoadDotEnv loads variables from the given files into the process environment
// without overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
		LogFile:          configViper.GetString("log.file"),
		StorageBackend:   strings.ToLower(strings.TrimSpace(configViper.GetString("storage.backend"))),
		StorageNamespace: strings.TrimSpace(configViper.GetString("storage.namespace")),
		RedisAddress:     configViper.GetString("redis.address"),
		Timezone:         configViper.GetString("app.timezone"),
		Language:         locale.Normalize(configViper.GetString("app.language")),
		DisplayName:      strings.TrimSpace(configViper.GetString("app.display_name")),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// Location resolves the configured timezone used to compute check-in days.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c AppConfig) validate() error {
	switch c.StorageBackend {
	case StorageSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required")
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddress) == "" {
			return fmt.Errorf("redis.address is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage.backend %q is not one of sqlite, memory, redis", c.StorageBackend)
	}
	if c.StorageNamespace == "" {
		return fmt.Errorf("storage.namespace is required")
	}
	if c.DisplayName == "" {
		return fmt.Errorf("app.display_name is required")
	}
	if !locale.Supported(c.Language) {
		return fmt.Errorf("app.language %q is not supported", c.Language)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	return nil
}
