// Package config provides configuration loading, defaults, and validation for
// PrazoCerto.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	_ "time/tzdata" // calendar.location must resolve on hosts without zoneinfo

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "PRAZO"

// Sentinel errors returned (wrapped) by Load.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config file could not be parsed")
	ErrConfigValidation   = errors.New("config validation failed")
)

// ─────────────────────────────────────────────────────────────────────────────
// Options
// ─────────────────────────────────────────────────────────────────────────────

type loadOptions struct {
	configPath  string
	searchPaths []string
	envFiles    []string
	overrides   map[string]interface{}
}

// Option customises Load.
type Option func(*loadOptions)

// WithConfigPath loads an explicit YAML file.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) { o.configPath = path }
}

// WithSearchPaths looks for config.yaml in each directory in order.
func WithSearchPaths(paths ...string) Option {
	return func(o *loadOptions) { o.searchPaths = append(o.searchPaths, paths...) }
}

// WithEnvFiles loads dotenv files before reading PRAZO_* variables. Variables
// already present in the process environment are not overwritten.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.envFiles = append(o.envFiles, files...) }
}

// WithOverrides sets keys (dotted paths) with the highest precedence.
func WithOverrides(values map[string]interface{}) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]interface{}, len(values))
		}
		for k, v := range values {
			o.overrides[k] = v
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// newViper builds a Viper instance with YAML file type, PRAZO_ env prefix,
// automatic env binding and "." -> "_" key replacement, so that
// "database.postgres.host" resolves to PRAZO_DATABASE_POSTGRES_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every known key so that AutomaticEnv can populate
// fields that never appear in a config file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.http.host", "server.http.port", "server.http.mode",
		"server.http.read_timeout", "server.http.write_timeout", "server.http.shutdown_timeout",
		"server.http.max_body_size", "server.http.cors_origins", "server.http.admin_keys",
		"server.http.rate_limit_rps", "server.http.rate_limit_burst",
		"database.postgres.enabled", "database.postgres.host", "database.postgres.port",
		"database.postgres.user", "database.postgres.password", "database.postgres.dbname",
		"database.postgres.sslmode", "database.postgres.max_conns", "database.postgres.min_conns",
		"database.postgres.migrations_path",
		"cache.redis.enabled", "cache.redis.mode", "cache.redis.addr", "cache.redis.addrs",
		"cache.redis.password", "cache.redis.db", "cache.redis.default_ttl", "cache.redis.key_prefix",
		"messaging.kafka.enabled", "messaging.kafka.brokers", "messaging.kafka.consumer_group",
		"messaging.kafka.calendar_topic", "messaging.kafka.catalog_topic", "messaging.kafka.dead_letter_topic",
		"calendar.store", "calendar.seed_path", "calendar.courts_path", "calendar.location",
		"calendar.default_court", "calendar.lookahead_days", "calendar.refresh_schedule",
		"catalog.store", "catalog.seed_path",
		"engine.max_iterations", "engine.result_cache_size",
		"conflict.weekly_threshold", "conflict.concurrency",
		"monitoring.logging.level", "monitoring.logging.format",
		"monitoring.prometheus.enabled", "monitoring.prometheus.namespace", "monitoring.prometheus.path",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func buildViper(opts ...Option) (*viper.Viper, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.envFiles) > 0 {
		existing := make([]string, 0, len(o.envFiles))
		for _, f := range o.envFiles {
			if _, err := os.Stat(f); err == nil {
				existing = append(existing, f)
			}
		}
		if len(existing) > 0 {
			if err := godotenv.Load(existing...); err != nil {
				return nil, fmt.Errorf("config: failed to load env files: %w", err)
			}
		}
	}

	v := newViper()
	switch {
	case o.configPath != "":
		if _, err := os.Stat(o.configPath); err != nil {
			return nil, fmt.Errorf("config: %q: %w", o.configPath, ErrConfigFileNotFound)
		}
		v.SetConfigFile(o.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %q: %w: %v", o.configPath, ErrConfigParseError, err)
		}
	case len(o.searchPaths) > 0:
		v.SetConfigName("config")
		for _, p := range o.searchPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: search paths %v: %w", o.searchPaths, ErrConfigFileNotFound)
			}
			return nil, fmt.Errorf("config: %w: %v", ErrConfigParseError, err)
		}
	}

	for k, val := range o.overrides {
		v.Set(k, val)
	}
	return v, nil
}

// Load reads configuration from the sources selected by opts, merges PRAZO_*
// environment overrides, applies defaults and validates the result. The
// loaded configuration becomes the value returned by Get.
func Load(opts ...Option) (*Config, error) {
	v, err := buildViper(opts...)
	if err != nil {
		return nil, err
	}
	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
	return cfg, nil
}

// LoadFromFile is shorthand for Load(WithConfigPath(path)).
func LoadFromFile(path string) (*Config, error) {
	return Load(WithConfigPath(path))
}

// LoadFromEnv builds a Config from PRAZO_* environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load()
}

// MustLoad wraps Load and panics on any error.
func MustLoad(opts ...Option) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

// Get returns the most recently loaded configuration, or nil.
func Get() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCfg
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Hot reload
// ─────────────────────────────────────────────────────────────────────────────

// Watch monitors configPath and invokes onChange with the re-validated Config
// after each write. Invalid edits are reported to onError (if non-nil) and the
// previous configuration stays in effect. Callers apply only the safe subset
// of fields at runtime; the API server only applies the log level.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v, err := buildViper(WithConfigPath(configPath))
	if err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		globalMu.Lock()
		globalCfg = cfg
		globalMu.Unlock()
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

//Personal.AI order the ending
