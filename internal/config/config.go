// Package config loads application configuration from environment
// variables and an optional kickoffhub.yaml file via viper.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Auth      AuthConfig
	Football  FootballConfig
	RateLimit RateLimitConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string
	Env     string // "development", "test", "production"
	Modules string // optional path to modules.yaml
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds relational database settings.
type DatabaseConfig struct {
	Driver          string // "mysql", "postgres", "sqlite3"
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	Path            string // sqlite3 only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings. An empty Addr disables
// both caching and the background import queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// QueueConfig holds background import queue settings.
type QueueConfig struct {
	Name        string
	MaxAttempts int
	ReserveWait time.Duration
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// FootballConfig holds third-party football-data provider settings.
type FootballConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RateLimitConfig holds per-client rate limit settings.
type RateLimitConfig struct {
	RequestsPerHour int
}

var (
	mu  sync.RWMutex
	cfg *Config
)

// Load reads configuration from the environment (KICKOFFHUB_ prefix) and,
// when present, from kickoffhub.yaml in the working directory or /etc/kickoffhub.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "kickoffhub")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "kickoffhub")
	v.SetDefault("database.user", "kickoffhub")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "5m")
	v.SetDefault("queue.name", "kickoffhub:queue:imports")
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.reserve_wait", "5s")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("football.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("football.timeout", "10s")
	v.SetDefault("rate_limit.requests_per_hour", 1000)

	v.SetConfigName("kickoffhub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/kickoffhub")

	v.SetEnvPrefix("KICKOFFHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; env + defaults carry a full config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     strings.ToLower(v.GetString("app.env")),
			Modules: v.GetString("app.modules"),
		},
		HTTP: HTTPConfig{
			Host:            v.GetString("http.host"),
			Port:            v.GetInt("http.port"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			Name:            v.GetString("database.name"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			SSLMode:         v.GetString("database.ssl_mode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		Queue: QueueConfig{
			Name:        v.GetString("queue.name"),
			MaxAttempts: v.GetInt("queue.max_attempts"),
			ReserveWait: v.GetDuration("queue.reserve_wait"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("auth.jwt_secret"),
			AccessTokenTTL: v.GetDuration("auth.access_token_ttl"),
		},
		Football: FootballConfig{
			BaseURL: v.GetString("football.base_url"),
			APIKey:  v.GetString("football.api_key"),
			Timeout: v.GetDuration("football.timeout"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerHour: v.GetInt("rate_limit.requests_per_hour"),
		},
	}

	if c.App.Env == "production" && c.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required in production")
	}

	mu.Lock()
	cfg = c
	mu.Unlock()
	return c, nil
}

// Get returns the last loaded configuration, or nil when Load has not run.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Config) {
	mu.Lock()
	cfg = c
	mu.Unlock()
}

// Addr returns the host:port the HTTP server binds to.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
