// Package config loads service configuration from config.toml, a .env file
// and VTS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
)

// EnvPrefix prefixes every environment override, e.g. VTS_DATABASE_PASSWORD.
const EnvPrefix = "VTS"

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Business BusinessConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
	LockTimeout      time.Duration
	MigrationsDir    string
}

// DSN builds a postgres:// URL accepted by both pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// StorageConfig locates OEM feed files, on disk or in S3.
type StorageConfig struct {
	FeedDir    string
	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Endpoint string
	AccessKey  string
	SecretKey  string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string
	Development bool
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

// BusinessConfig holds dealership rules.
type BusinessConfig struct {
	// Timezone is the IANA zone every business date is taken in.
	Timezone string
	// CorrectionCutoff is the date (YYYY-MM-DD) from which a transfer blocks a stock correction.
	CorrectionCutoff string
	// CompletedWindow is how far back the completed-PDI list looks.
	CompletedWindow time.Duration
}

// Location resolves Timezone.
func (b BusinessConfig) Location() (*time.Location, error) {
	return clock.LoadLocation(b.Timezone)
}

// Cutoff parses CorrectionCutoff in loc. An empty value is the zero time.
func (b BusinessConfig) Cutoff(loc *time.Location) (time.Time, error) {
	if b.CorrectionCutoff == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, b.CorrectionCutoff, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("business.correction_cutoff: %w", err)
	}
	return t, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vehicle-tracking-system")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "vts")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.statement_timeout", 30*time.Second)
	v.SetDefault("database.lock_timeout", 10*time.Second)
	v.SetDefault("database.migrations_dir", "migrations")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", 30*time.Minute)
	v.SetDefault("redis.prefix", "vts:")

	v.SetDefault("storage.feed_dir", "feeds")
	v.SetDefault("storage.s3_region", "ap-south-1")

	v.SetDefault("log.level", "info")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.max_body_size", int64(10<<20))

	v.SetDefault("business.timezone", "Asia/Kolkata")
	v.SetDefault("business.correction_cutoff", "")
	v.SetDefault("business.completed_window", 48*time.Hour)
}

// Load reads configuration. Priority, highest first:
//  1. VTS_* environment variables (a .env file in the working directory is loaded first)
//  2. the config file: path when given, otherwise config.toml in . or /etc/vts
//  3. built-in defaults
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/vts")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("database.host"),
			Port:             v.GetInt("database.port"),
			User:             v.GetString("database.user"),
			Password:         v.GetString("database.password"),
			DBName:           v.GetString("database.dbname"),
			SSLMode:          v.GetString("database.sslmode"),
			MaxConns:         v.GetInt32("database.max_conns"),
			MinConns:         v.GetInt32("database.min_conns"),
			StatementTimeout: v.GetDuration("database.statement_timeout"),
			LockTimeout:      v.GetDuration("database.lock_timeout"),
			MigrationsDir:    v.GetString("database.migrations_dir"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Storage: StorageConfig{
			FeedDir:    v.GetString("storage.feed_dir"),
			S3Bucket:   v.GetString("storage.s3_bucket"),
			S3Prefix:   v.GetString("storage.s3_prefix"),
			S3Region:   v.GetString("storage.s3_region"),
			S3Endpoint: v.GetString("storage.s3_endpoint"),
			AccessKey:  v.GetString("storage.access_key"),
			SecretKey:  v.GetString("storage.secret_key"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetString("app.env") == "development",
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
		},
		Business: BusinessConfig{
			Timezone:         v.GetString("business.timezone"),
			CorrectionCutoff: v.GetString("business.correction_cutoff"),
			CompletedWindow:  v.GetDuration("business.completed_window"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and dbname are required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	loc, err := c.Business.Location()
	if err != nil {
		return fmt.Errorf("business.timezone: %w", err)
	}
	if _, err := c.Business.Cutoff(loc); err != nil {
		return err
	}
	if c.Storage.S3Bucket != "" && c.Storage.S3Region == "" {
		return fmt.Errorf("storage.s3_region is required with storage.s3_bucket")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
