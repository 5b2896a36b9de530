package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultHTTPHost            = "0.0.0.0"
	DefaultHTTPPort            = 8080
	DefaultServerMode          = "release"
	DefaultHTTPReadTimeout     = 15 * time.Second
	DefaultHTTPWriteTimeout    = 30 * time.Second
	DefaultHTTPShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize         = 1 << 20

	DefaultDBHost          = "localhost"
	DefaultDBPort          = 5432
	DefaultDBName          = "prazocerto"
	DefaultDBMaxConns      = 10
	DefaultMigrationsPath  = "file://migrations"
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisMode       = "standalone"
	DefaultRedisTTL        = 24 * time.Hour
	DefaultRedisKeyPrefix  = "prazo:"
	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroup      = "prazocerto"
	DefaultCalendarTopic   = "prazocerto.calendar.updated"
	DefaultCatalogTopic    = "prazocerto.catalog.updated"
	DefaultDeadLetterTopic = "prazocerto.dlq"

	DefaultCalendarStore     = "memory"
	DefaultCalendarLocation  = "America/Sao_Paulo"
	DefaultCourt             = "TJSP"
	DefaultLookaheadDays     = 730
	DefaultSnapshotCacheSize = 256
	DefaultNationalFromYear  = 2015
	DefaultNationalToYear    = 2035

	DefaultMaxIterations   = 3650
	DefaultResultCacheSize = 4096

	DefaultWeeklyThreshold     = 15
	DefaultConflictConcurrency = 8

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "prazocerto"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	h := &cfg.Server.HTTP
	if h.Host == "" {
		h.Host = DefaultHTTPHost
	}
	if h.Port == 0 {
		h.Port = DefaultHTTPPort
	}
	if h.Mode == "" {
		h.Mode = DefaultServerMode
	}
	if h.ReadTimeout == 0 {
		h.ReadTimeout = DefaultHTTPReadTimeout
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = DefaultHTTPWriteTimeout
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = DefaultHTTPShutdownTimeout
	}
	if h.MaxBodySize == 0 {
		h.MaxBodySize = DefaultMaxBodySize
	}
	if h.RateLimitRPS > 0 && h.RateLimitBurst == 0 {
		h.RateLimitBurst = int(2 * h.RateLimitRPS)
		if h.RateLimitBurst < 1 {
			h.RateLimitBurst = 1
		}
	}

	// ── Database ──────────────────────────────────────────────────────────────
	pg := &cfg.Database.Postgres
	if pg.Host == "" {
		pg.Host = DefaultDBHost
	}
	if pg.Port == 0 {
		pg.Port = DefaultDBPort
	}
	if pg.DBName == "" {
		pg.DBName = DefaultDBName
	}
	if pg.SSLMode == "" {
		pg.SSLMode = "disable"
	}
	if pg.MaxConns == 0 {
		pg.MaxConns = DefaultDBMaxConns
	}
	if pg.MigrationsPath == "" {
		pg.MigrationsPath = DefaultMigrationsPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	r := &cfg.Cache.Redis
	if r.Mode == "" {
		r.Mode = DefaultRedisMode
	}
	if r.Addr == "" {
		r.Addr = DefaultRedisAddr
	}
	if r.DefaultTTL == 0 {
		r.DefaultTTL = DefaultRedisTTL
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	k := &cfg.Messaging.Kafka
	if len(k.Brokers) == 0 {
		k.Brokers = []string{DefaultKafkaBroker}
	}
	if k.ConsumerGroup == "" {
		k.ConsumerGroup = DefaultKafkaGroup
	}
	if k.CalendarTopic == "" {
		k.CalendarTopic = DefaultCalendarTopic
	}
	if k.CatalogTopic == "" {
		k.CatalogTopic = DefaultCatalogTopic
	}
	if k.DeadLetterTopic == "" {
		k.DeadLetterTopic = DefaultDeadLetterTopic
	}
	if k.MaxRetries == 0 {
		k.MaxRetries = 3
	}

	// ── Calendar / catalog / engine ───────────────────────────────────────────
	c := &cfg.Calendar
	if c.Store == "" {
		c.Store = DefaultCalendarStore
	}
	if c.Location == "" {
		c.Location = DefaultCalendarLocation
	}
	if c.DefaultCourt == "" {
		c.DefaultCourt = DefaultCourt
	}
	if c.LookaheadDays == 0 {
		c.LookaheadDays = DefaultLookaheadDays
	}
	if c.SnapshotCacheSize == 0 {
		c.SnapshotCacheSize = DefaultSnapshotCacheSize
	}
	if c.NationalFromYear == 0 {
		c.NationalFromYear = DefaultNationalFromYear
	}
	if c.NationalToYear == 0 {
		c.NationalToYear = DefaultNationalToYear
	}
	if cfg.Catalog.Store == "" {
		cfg.Catalog.Store = DefaultCalendarStore
	}
	if cfg.Engine.MaxIterations == 0 {
		cfg.Engine.MaxIterations = DefaultMaxIterations
	}
	if cfg.Engine.ResultCacheSize == 0 {
		cfg.Engine.ResultCacheSize = DefaultResultCacheSize
	}
	if cfg.Conflict.WeeklyThreshold == 0 {
		cfg.Conflict.WeeklyThreshold = DefaultWeeklyThreshold
	}
	if cfg.Conflict.Concurrency == 0 {
		cfg.Conflict.Concurrency = DefaultConflictConcurrency
	}

	// ── Monitoring ────────────────────────────────────────────────────────────
	if cfg.Monitoring.Logging.Level == "" {
		cfg.Monitoring.Logging.Level = DefaultLogLevel
	}
	if cfg.Monitoring.Logging.Format == "" {
		cfg.Monitoring.Logging.Format = DefaultLogFormat
	}
	if cfg.Monitoring.Prometheus.Namespace == "" {
		cfg.Monitoring.Prometheus.Namespace = DefaultMetricsNamespace
	}
	if cfg.Monitoring.Prometheus.Path == "" {
		cfg.Monitoring.Prometheus.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
