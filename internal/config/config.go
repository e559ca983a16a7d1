// Package config reads the settings of the person service from the environment.
//
// Usage example:
//
//	> PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/service
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings. Every field maps to one environment variable.
type Config struct {
	Port int `env:"PORT,default=8080"`

	DBHost            string        `env:"DBHOST,default=localhost:3306"`
	DBUser            string        `env:"DBUSER,default=root"`
	DBPassword        string        `env:"DBPWD"`
	DBName            string        `env:"DBNAME,default=persons"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=5m"`

	Environment      string        `env:"APP_ENV,default=production"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	LogFormat        string        `env:"LOG_FORMAT,default=json"`
	GinLogging       string        `env:"GIN_LOGGING,default=on"`
	MigrateOnStartup bool          `env:"MIGRATE_ON_STARTUP,default=true"`
	CORSOrigins      []string      `env:"CORS_ORIGINS,default=http://localhost:3000"`
	ListCacheMaxAge  time.Duration `env:"LIST_CACHE_MAX_AGE,default=60s"`
}

// Load reads the optional dotenv file and then decodes the environment into a Config. Variables
// already present in the environment take precedence over the file. A missing file is ignored.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be caught by decoding alone.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.ListCacheMaxAge < 0 {
		return fmt.Errorf("invalid LIST_CACHE_MAX_AGE %s", c.ListCacheMaxAge)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Diagnostic reports whether error responses may include internal error details.
func (c *Config) Diagnostic() bool {
	return strings.EqualFold(c.Environment, "development")
}

// RequestLogging reports whether every HTTP request is logged.
func (c *Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}
