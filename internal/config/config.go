// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Storage drivers
const (
	SQLiteStorage = "sqlite"
	RedisStorage  = "redis"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`
	PrivateKey  string   `mapstructure:"privatekey"`

	// Preview settings
	PreviewTTLSeconds int `mapstructure:"previewttlseconds"`
	MaxContentBytes   int `mapstructure:"maxcontentbytes"`

	// Storage settings
	StorageDriver        string `mapstructure:"storagedriver"`
	DatabasePath         string `mapstructure:"storagepath"`
	DatabaseName         string `mapstructure:"-"` // Derived from other settings
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`
	RedisAddr            string `mapstructure:"redisaddr"`
	RedisPassword        string `mapstructure:"redispassword"`
	RedisDB              int    `mapstructure:"redisdb"`

	// File paths
	GeoDBPath             string `mapstructure:"geodbpath"`
	PublicDirectory       string `mapstructure:"publicdir"`
	PublicAssetsUrlPrefix string `mapstructure:"publicassetsurlprefix"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Job scheduling settings
	JobIntervalSeconds int `mapstructure:"jobintervalseconds"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		v.SetDefault("appname", "snippetly")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("privatekey", "88888888888888888888888888888888")
		v.SetDefault("previewttlseconds", 31536000) // 365 days
		v.SetDefault("maxcontentbytes", 2*1024*1024)
		v.SetDefault("storagedriver", SQLiteStorage)
		v.SetDefault("storagepath", "storage")
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("redisaddr", "localhost:6379")
		v.SetDefault("redispassword", "")
		v.SetDefault("redisdb", 0)
		v.SetDefault("geodbpath", "")
		v.SetDefault("publicdir", "web/static")
		v.SetDefault("publicassetsurlprefix", "/")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("jobintervalseconds", 3600)

		v.BindEnv("appname", "SNIPPETLY_APP_NAME")
		v.BindEnv("appport", "SNIPPETLY_APP_PORT")
		v.BindEnv("environment", "SNIPPETLY_ENV")
		v.BindEnv("loglevel", "SNIPPETLY_LOG_LEVEL")
		v.BindEnv("privatekey", "SNIPPETLY_PRIVATE_KEY")
		v.BindEnv("previewttlseconds", "SNIPPETLY_PREVIEW_TTL_SECONDS")
		v.BindEnv("maxcontentbytes", "SNIPPETLY_MAX_CONTENT_BYTES")
		v.BindEnv("storagedriver", "SNIPPETLY_STORAGE_DRIVER")
		v.BindEnv("storagepath", "SNIPPETLY_STORAGE_PATH")
		v.BindEnv("dbmaxopenconns", "SNIPPETLY_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "SNIPPETLY_DB_MAX_IDLE_CONNS")
		v.BindEnv("redisaddr", "SNIPPETLY_REDIS_ADDR")
		v.BindEnv("redispassword", "SNIPPETLY_REDIS_PASSWORD")
		v.BindEnv("redisdb", "SNIPPETLY_REDIS_DB")
		v.BindEnv("geodbpath", "SNIPPETLY_GEO_DB_PATH")
		v.BindEnv("publicdir", "SNIPPETLY_PUBLIC_DIR")
		v.BindEnv("publicassetsurlprefix", "SNIPPETLY_PUBLIC_ASSETS_URL_PREFIX")
		v.BindEnv("logsdir", "SNIPPETLY_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "SNIPPETLY_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "SNIPPETLY_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "SNIPPETLY_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("jobintervalseconds", "SNIPPETLY_JOB_INTERVAL_SECONDS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDrivers := map[string]bool{
		SQLiteStorage: true,
		RedisStorage:  true,
	}
	if !validDrivers[c.StorageDriver] {
		return fmt.Errorf("invalid storage driver: %s", c.StorageDriver)
	}

	if c.PreviewTTLSeconds <= 0 {
		return fmt.Errorf("preview TTL must be positive, got %d", c.PreviewTTLSeconds)
	}
	if c.MaxContentBytes <= 0 {
		return fmt.Errorf("max content bytes must be positive, got %d", c.MaxContentBytes)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// PreviewTTL returns the preview expiry as a duration.
func (c *Config) PreviewTTL() time.Duration {
	return time.Duration(c.PreviewTTLSeconds) * time.Second
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetPort returns the HTTP server port (implements cartridge.Config interface).
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetPublicDirectory returns the path to public/static assets (implements cartridge.Config interface).
func (c *Config) GetPublicDirectory() string {
	return c.PublicDirectory
}

// GetAssetsPrefix returns the URL prefix for static assets (implements cartridge.Config interface).
func (c *Config) GetAssetsPrefix() string {
	return c.PublicAssetsUrlPrefix
}

// GetAppName returns the application name (implements cartridge.FactoryConfig interface).
func (c *Config) GetAppName() string {
	return c.AppName
}

// DatabaseDSN returns the database connection string (implements cartridge.FactoryConfig interface).
func (c *Config) DatabaseDSN() string {
	return c.GetDatabasePath()
}

// GetSessionSecret returns the session encryption key (implements cartridge.FactoryConfig interface).
// Snippetly has no login sessions; the chassis still requires a key.
func (c *Config) GetSessionSecret() string {
	return c.PrivateKey
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// If explicitly set via env var, uses that value. Test runs with a single
// connection for E2E stability.
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment.
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// GetLogLevel returns the log level as a string (implements cartridge.LogConfigProvider).
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory (implements cartridge.LogConfigProvider).
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
