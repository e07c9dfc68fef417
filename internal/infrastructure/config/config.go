// Package config loads service configuration from config.toml and
// environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	WMS       WMSConfig
	Webhook   WebhookConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// WMSConfig holds warehouse API connection settings
type WMSConfig struct {
	Host           string
	APIKey         string
	TimeoutSeconds int
	ProbeTTL       time.Duration // how long a connectivity probe result is cached
}

// WebhookConfig holds the hand-off webhook settings
type WebhookConfig struct {
	URL            string
	Secret         string
	TimeoutSeconds int
}

// SyncConfig holds order synchronization behavior toggles
type SyncConfig struct {
	AutoSubmit        bool     // submit orders automatically on readiness
	AutoUpdate        bool     // allow warehouse-driven cache mutations
	AutoComplete      bool     // complete local orders when all remote orders ship
	ReadyStatuses     []string // order statuses eligible for hand-off
	ReadyFromStatuses []string // previous statuses eligible on transition
}

// SchedulerConfig holds background sync scheduling settings
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration // time between batch sync runs
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WMS_ prefix (e.g., WMS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("WMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		WMS: WMSConfig{
			Host:           v.GetString("wms.host"),
			APIKey:         v.GetString("wms.api_key"),
			TimeoutSeconds: v.GetInt("wms.timeout_seconds"),
			ProbeTTL:       v.GetDuration("wms.probe_ttl"),
		},
		Webhook: WebhookConfig{
			URL:            v.GetString("webhook.url"),
			Secret:         v.GetString("webhook.secret"),
			TimeoutSeconds: v.GetInt("webhook.timeout_seconds"),
		},
		Sync: SyncConfig{
			AutoSubmit:        v.GetBool("sync.auto_submit"),
			AutoUpdate:        v.GetBool("sync.auto_update"),
			AutoComplete:      v.GetBool("sync.auto_complete"),
			ReadyStatuses:     v.GetStringSlice("sync.ready_statuses"),
			ReadyFromStatuses: v.GetStringSlice("sync.ready_from_statuses"),
		},
		Scheduler: SchedulerConfig{
			Enabled:  v.GetBool("scheduler.enabled"),
			Interval: v.GetDuration("scheduler.interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills every zero-valued field with its built-in default.
func applyDefaults(cfg *Config) {
	defaultString(&cfg.App.Name, "wms-connect")
	defaultString(&cfg.App.Env, "development")
	defaultString(&cfg.App.Port, "8080")

	defaultString(&cfg.Database.Host, "localhost")
	defaultInt(&cfg.Database.Port, 5432)
	defaultString(&cfg.Database.User, "postgres")
	defaultString(&cfg.Database.DBName, "wms_connect")
	defaultString(&cfg.Database.SSLMode, "disable")
	defaultInt(&cfg.Database.MaxOpenConns, 25)
	defaultInt(&cfg.Database.MaxIdleConns, 5)
	defaultInt(&cfg.Database.ConnMaxLifetime, 60)
	defaultInt(&cfg.Database.ConnMaxIdleTime, 30)

	defaultString(&cfg.Redis.Host, "localhost")
	defaultInt(&cfg.Redis.Port, 6379)

	defaultString(&cfg.Log.Level, "info")
	defaultString(&cfg.Log.Format, "console")
	defaultString(&cfg.Log.Output, "stdout")

	defaultDuration(&cfg.HTTP.ReadTimeout, 15*time.Second)
	defaultDuration(&cfg.HTTP.WriteTimeout, 15*time.Second)
	defaultDuration(&cfg.HTTP.IdleTimeout, 60*time.Second)
	defaultInt(&cfg.HTTP.MaxHeaderBytes, 1<<20)
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}

	defaultInt(&cfg.WMS.TimeoutSeconds, 30)
	defaultDuration(&cfg.WMS.ProbeTTL, 5*time.Minute)
	defaultInt(&cfg.Webhook.TimeoutSeconds, 30)

	if len(cfg.Sync.ReadyStatuses) == 0 {
		cfg.Sync.ReadyStatuses = []string{"processing", "completed"}
	}
	if len(cfg.Sync.ReadyFromStatuses) == 0 {
		cfg.Sync.ReadyFromStatuses = []string{"on-hold", "failed"}
	}
	defaultDuration(&cfg.Scheduler.Interval, 15*time.Minute)
}

func defaultString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func defaultInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

func defaultDuration(field *time.Duration, value time.Duration) {
	if *field == 0 {
		*field = value
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.WMS.Host == "" {
			return fmt.Errorf("wms.host is required in production")
		}
		if c.WMS.APIKey == "" {
			return fmt.Errorf("wms.api_key is required in production")
		}
		if c.Webhook.Secret == "" {
			return fmt.Errorf("webhook.secret is required in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
