// Package config loads the settings the import and serve commands need: an
// optional .env-style file, AutomaticEnv, explicit env aliases, and
// DSN-driven driver selection. DATABASE_URL and BACKEND_ADDRESS are the two
// canonical environment variables, bound as aliases below.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the import and serve commands.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds the HTTP bind address (BACKEND_ADDRESS) and the size of
// the blocking worker pool hydration queries are dispatched to.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Workers int    `mapstructure:"workers"`
}

// DatabaseConfig holds the DATABASE_URL connection string.
type DatabaseConfig struct {
	DSN    string `mapstructure:"dsn"`
	LogSQL bool   `mapstructure:"log_sql"`

	driver      string
	initialized bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := bindEnvAliases(); err != nil {
		return nil, fmt.Errorf("bind env aliases: %w", err)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Database.resolve(); err != nil {
		return nil, fmt.Errorf("validate database config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.workers", 10)

	// Database defaults
	viper.SetDefault("database.dsn", "file:./data/cedictx.db")
	viper.SetDefault("database.log_sql", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// bindEnvAliases wires DATABASE_URL and BACKEND_ADDRESS onto the config keys
// viper's automatic "." -> "_" replacement would not otherwise reach.
func bindEnvAliases() error {
	for key, env := range map[string]string{
		"database.dsn":     "DATABASE_URL",
		"database.log_sql": "DB_LOG_SQL",
		"server.address":   "BACKEND_ADDRESS",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// DatabaseDriver returns "postgres" or "sqlite3", resolved from the DSN.
func (c *Config) DatabaseDriver() (string, error) {
	if err := c.Database.resolve(); err != nil {
		return "", err
	}
	return c.Database.driver, nil
}

// DatabaseURL returns the DSN, normalised for the resolved driver.
func (c *Config) DatabaseURL() (string, error) {
	if err := c.Database.resolve(); err != nil {
		return "", err
	}
	return c.Database.DSN, nil
}

// resolve picks the driver for the configured DSN and, for sqlite, rewrites
// the DSN into the canonical file: form with the required connection
// options. Subsequent calls are no-ops.
func (db *DatabaseConfig) resolve() error {
	if db.initialized {
		return nil
	}

	dsn := strings.TrimSpace(db.DSN)
	driver, err := driverForDSN(dsn)
	if err != nil {
		return err
	}
	if driver == "sqlite3" {
		dsn = sqliteDSN(dsn)
	}

	db.DSN = dsn
	db.driver = driver
	db.initialized = true
	return nil
}

// driverForDSN dispatches between the two supported backends. Postgres must
// be given as a URL; a file: DSN or a bare path means sqlite. Any other
// scheme is rejected rather than guessed at.
func driverForDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("database dsn is required")
	}

	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		switch strings.ToLower(scheme) {
		case "postgres", "postgresql":
			return "postgres", nil
		case "sqlite", "sqlite3", "file":
			return "sqlite3", nil
		}
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}

	return "sqlite3", nil
}

// sqliteDSN rewrites dsn into the file: form the sqlite3 driver expects and
// fills in the connection options every pooled connection must carry —
// foreign-key enforcement, a busy timeout, WAL journaling — without
// overriding any the DSN already sets.
func sqliteDSN(dsn string) string {
	path, query, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "sqlite3://")
	path = strings.TrimPrefix(path, "sqlite://")
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}
	for key, value := range map[string]string{
		"_fk":           "1",
		"_busy_timeout": "5000",
		"_journal":      "WAL",
	} {
		if !params.Has(key) {
			params.Set(key, value)
		}
	}

	return path + "?" + params.Encode()
}
