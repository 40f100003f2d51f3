package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/maxviazov/basketball-stat-tracker/internal/logger"
)

// Storage drivers understood by cmd/server.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	SQLite   SQLiteConfig        `mapstructure:"sqlite"`
	HTTP     HTTPConfig          `mapstructure:"http"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	// MigrateTimeout bounds the startup schema step, in seconds.
	MigrateTimeout int `mapstructure:"migrate_timeout" validate:"min=1"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	ReadTimeout      int             `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout     int             `mapstructure:"write_timeout" validate:"min=1"`
	RequestTimeout   int             `mapstructure:"request_timeout" validate:"min=1"`
	CORSAllowOrigins []string        `mapstructure:"cors_allow_origins"`
	RateLimit        RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests" validate:"min=1"`
	WindowSeconds int  `mapstructure:"window_seconds" validate:"min=1"`
}

// Window returns the rate limit window as a duration.
func (r RateLimitConfig) Window() time.Duration { return time.Duration(r.WindowSeconds) * time.Second }

// RequestDeadline returns the per-request context timeout.
func (h HTTPConfig) RequestDeadline() time.Duration { return time.Duration(h.RequestTimeout) * time.Second }

// validateStorage checks the fields the selected driver cannot work without.
func (c *Config) validateStorage() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.User == "" {
			errs = append(errs, errors.New("postgres.user is required"))
		}
		if c.Postgres.Password == "" {
			errs = append(errs, errors.New("postgres.password is required"))
		}
		if c.Postgres.DBName == "" {
			errs = append(errs, errors.New("postgres.dbname is required"))
		}
		if c.Postgres.Host == "" {
			errs = append(errs, errors.New("postgres.host is required"))
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("sqlite.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}
