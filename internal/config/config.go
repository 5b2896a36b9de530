// Package config defines the configuration structures of PrazoCerto.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// HTTPConfig holds HTTP server tunables.
type HTTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// AdminKeys authorise /api/v1/admin routes. Empty disables them.
	AdminKeys []string `mapstructure:"admin_keys"`
	// RateLimitRPS is the sustained per-client rate; 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// ServerConfig groups the network listeners.
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DSN renders a libpq URL usable by both pgx and golang-migrate.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

// DatabaseConfig groups persistent stores.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig holds the second-level result cache settings.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig groups caches.
type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// KafkaConfig holds the calendar/catalog change-feed settings.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroup   string   `mapstructure:"consumer_group"`
	CalendarTopic   string   `mapstructure:"calendar_topic"`
	CatalogTopic    string   `mapstructure:"catalog_topic"`
	DeadLetterTopic string   `mapstructure:"dead_letter_topic"`
	MaxRetries      int      `mapstructure:"max_retries"`
}

// MessagingConfig groups message brokers.
type MessagingConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// CalendarConfig controls how judicial calendars are sourced and cached.
type CalendarConfig struct {
	// Store is "memory" (seed files only) or "postgres".
	Store        string `mapstructure:"store"`
	SeedPath     string `mapstructure:"seed_path"`
	CourtsPath   string `mapstructure:"courts_path"`
	Location     string `mapstructure:"location"`
	DefaultCourt string `mapstructure:"default_court"`
	// LookaheadDays bounds the window fetched for one computation.
	LookaheadDays     int    `mapstructure:"lookahead_days"`
	SnapshotCacheSize int    `mapstructure:"snapshot_cache_size"`
	RefreshSchedule   string `mapstructure:"refresh_schedule"`
	NationalFromYear  int    `mapstructure:"national_from_year"`
	NationalToYear    int    `mapstructure:"national_to_year"`
	// OptionalClosureCourts opt into Carnaval, Ash Wednesday and Corpus
	// Christi closures.
	OptionalClosureCourts []string `mapstructure:"optional_closure_courts"`
}

// EngineConfig bounds the deadline walk.
type EngineConfig struct {
	MaxIterations   int `mapstructure:"max_iterations"`
	ResultCacheSize int `mapstructure:"result_cache_size"`
}

// CatalogConfig points at the deadline catalog source.
type CatalogConfig struct {
	// Store is "memory" (embedded seed plus optional file) or "postgres".
	Store    string `mapstructure:"store"`
	SeedPath string `mapstructure:"seed_path"`
}

// ConflictConfig tunes conflict detection.
type ConflictConfig struct {
	WeeklyThreshold int `mapstructure:"weekly_threshold"`
	Concurrency     int `mapstructure:"concurrency"`
}

// PrometheusConfig controls the metrics endpoint.
type PrometheusConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// MonitoringConfig groups observability settings.
type MonitoringConfig struct {
	Logging    logging.LogConfig `mapstructure:"logging"`
	Prometheus PrometheusConfig  `mapstructure:"prometheus"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Messaging  MessagingConfig  `mapstructure:"messaging"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Conflict   ConflictConfig   `mapstructure:"conflict"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// Sections that are disabled are not checked.
func (c *Config) Validate() error {
	if c.Server.HTTP.Port < 1 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("config: server.http.port %d is out of range [1, 65535]", c.Server.HTTP.Port)
	}
	switch c.Server.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.http.mode %q is invalid; expected debug|release|test", c.Server.HTTP.Mode)
	}

	pg := c.Database.Postgres
	if pg.Enabled || c.Calendar.Store == "postgres" || c.Catalog.Store == "postgres" {
		if pg.Host == "" {
			return fmt.Errorf("config: database.postgres.host is required")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("config: database.postgres.port %d is out of range [1, 65535]", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("config: database.postgres.user is required")
		}
		if pg.DBName == "" {
			return fmt.Errorf("config: database.postgres.dbname is required")
		}
		if pg.MaxConns < 1 {
			return fmt.Errorf("config: database.postgres.max_conns must be >= 1, got %d", pg.MaxConns)
		}
	}

	if c.Cache.Redis.Enabled {
		switch c.Cache.Redis.Mode {
		case "standalone":
			if c.Cache.Redis.Addr == "" {
				return fmt.Errorf("config: cache.redis.addr is required")
			}
		case "sentinel", "cluster":
			if len(c.Cache.Redis.Addrs) == 0 {
				return fmt.Errorf("config: cache.redis.addrs is required in %s mode", c.Cache.Redis.Mode)
			}
		default:
			return fmt.Errorf("config: cache.redis.mode %q is invalid", c.Cache.Redis.Mode)
		}
		if c.Cache.Redis.DB < 0 {
			return fmt.Errorf("config: cache.redis.db must be >= 0, got %d", c.Cache.Redis.DB)
		}
	}

	if c.Messaging.Kafka.Enabled {
		if len(c.Messaging.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: messaging.kafka.brokers must contain at least one broker address")
		}
		if c.Messaging.Kafka.ConsumerGroup == "" {
			return fmt.Errorf("config: messaging.kafka.consumer_group is required")
		}
	}

	switch c.Calendar.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: calendar.store %q is invalid; expected memory|postgres", c.Calendar.Store)
	}
	switch c.Catalog.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: catalog.store %q is invalid; expected memory|postgres", c.Catalog.Store)
	}
	if _, err := time.LoadLocation(c.Calendar.Location); err != nil {
		return fmt.Errorf("config: calendar.location %q: %w", c.Calendar.Location, err)
	}
	if c.Calendar.LookaheadDays < 30 {
		return fmt.Errorf("config: calendar.lookahead_days must be >= 30, got %d", c.Calendar.LookaheadDays)
	}
	if c.Calendar.NationalFromYear > c.Calendar.NationalToYear {
		return fmt.Errorf("config: calendar.national_from_year must not exceed national_to_year")
	}
	if c.Calendar.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Calendar.RefreshSchedule); err != nil {
			return fmt.Errorf("config: calendar.refresh_schedule %q: %w", c.Calendar.RefreshSchedule, err)
		}
	}

	if c.Engine.MaxIterations < 1 {
		return fmt.Errorf("config: engine.max_iterations must be >= 1, got %d", c.Engine.MaxIterations)
	}
	if c.Conflict.WeeklyThreshold < 1 {
		return fmt.Errorf("config: conflict.weekly_threshold must be >= 1, got %d", c.Conflict.WeeklyThreshold)
	}

	switch strings.ToLower(c.Monitoring.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: monitoring.logging.level %q is invalid; expected debug|info|warn|error", c.Monitoring.Logging.Level)
	}
	switch c.Monitoring.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: monitoring.logging.format %q is invalid; expected json|console", c.Monitoring.Logging.Format)
	}

	return nil
}

//Personal.AI order the ending
