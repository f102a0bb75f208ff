package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendRedis    = "redis"
)

type Config struct {
	Environment string
	Host        string
	Port        int
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	StorageBackend        string `toml:"storage_backend"`
	PostgresHost          string `toml:"postgres_host"`
	PostgresPort          string `toml:"postgres_port"`
	PostgresDBName        string `toml:"postgres_db_name"`
	RedisHost             string `toml:"redis_host"`
	RedisPort             string `toml:"redis_port"`
	ProfileCacheSizeBytes int    `toml:"profile_cache_size_bytes"`
	// workouts
	Timezone             string   `toml:"timezone"`
	RestTickInterval     Duration `toml:"rest_tick_interval"`
	SessionIdleTTL       Duration `toml:"session_idle_ttl"`
	SessionSweepInterval Duration `toml:"session_sweep_interval"`
	// http
	OnboardRateLimitPerMin int      `toml:"onboard_rate_limit_per_min"`
	AllowedOrigins         []string `toml:"allowed_origins"`
}

// Duration reads values like "1s" or "30m" from the TOML file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Location resolves the configured time zone, the local one when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres, StorageBackendRedis:
	default:
		return fmt.Errorf("unknown storage backend: [%s]", c.StorageBackend)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.OnboardRateLimitPerMin <= 0 {
		return fmt.Errorf("invalid onboard rate limit: %d", c.OnboardRateLimitPerMin)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file and picks the section of the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
