// API server entry point for PrazoCerto.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/app"
	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/scheduler"
	httpserver "github.com/turtacn/PrazoCerto/internal/interfaces/http"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/handlers"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/middleware"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	eventSource       = "prazocerto-apiserver"
	topicSetupTimeout = 15 * time.Second
	jobTimeout        = 2 * time.Minute
	limiterCleanup    = 5 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: search ./configs, ., /etc/prazo)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	cfg, err := loadConfig(configPath, httpPort)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Monitoring.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logger.Info("starting PrazoCerto API server",
		logging.String("version", Version),
		logging.String("commit", GitCommit),
		logging.Int("http_port", cfg.Server.HTTP.Port),
		logging.String("calendar_store", cfg.Calendar.Store),
		logging.String("catalog_store", cfg.Catalog.Store),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	collector := prometheus.NewNopCollector()
	if cfg.Monitoring.Prometheus.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Monitoring.Prometheus.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}

	// --- Service ---
	a, err := app.New(ctx, cfg, logger, app.WithCollector(collector))
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	defer a.Close()

	// --- Messaging ---
	var notifier handlers.CalendarNotifier
	var consumer *kafka.Consumer
	if cfg.Messaging.Kafka.Enabled {
		n, c, closeKafka, err := startMessaging(ctx, cfg.Messaging.Kafka, a, logger)
		if err != nil {
			return err
		}
		defer closeKafka()
		notifier, consumer = n, c
	}

	// --- Scheduled jobs ---
	sched := scheduler.New(logger, scheduler.WithJobTimeout(jobTimeout))
	if cfg.Calendar.RefreshSchedule != "" {
		err := sched.Add("calendar-refresh", cfg.Calendar.RefreshSchedule, func(ctx context.Context) error {
			changed, err := a.Service.RefreshCalendarVersion(ctx)
			if changed {
				logger.Info("calendar version changed; caches invalidated")
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	sched.Start()

	// --- Config hot reload ---
	if configPath != "" {
		err := config.Watch(configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Monitoring.Logging.Level) {
				logger.Info("log level changed", logging.String("level", next.Monitoring.Logging.Level))
			}
		}, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	// --- HTTP ---
	limiter := newLimiter(cfg.Server.HTTP)
	if limiter != nil {
		defer limiter.Stop()
	}
	srv := httpserver.NewServer(cfg.Server.HTTP, buildRouter(cfg, a, collector, limiter, notifier, logger), logger)

	if consumer != nil {
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("HTTP server failed", logging.Err(runErr))
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler stop timed out", logging.Err(err))
	}

	logger.Info("server stopped")
	return runErr
}

func loadConfig(path string, httpPort int) (*config.Config, error) {
	opts := []config.Option{config.WithEnvFiles(".env")}
	if path != "" {
		opts = append(opts, config.WithConfigPath(path))
	} else {
		opts = append(opts, config.WithSearchPaths("./configs", ".", "/etc/prazo"))
	}
	if httpPort > 0 {
		opts = append(opts, config.WithOverrides(map[string]interface{}{"server.http.port": httpPort}))
	}

	cfg, err := config.Load(opts...)
	if errors.Is(err, config.ErrConfigFileNotFound) && path == "" {
		fmt.Fprintln(os.Stderr, "warning: no config file found; using defaults and environment")
		return config.Load(opts[:1]...)
	}
	return cfg, err
}

// startMessaging creates the topics, the change notifier and the consumer that
// applies changes announced by other replicas. The returned func closes the
// Kafka clients.
func startMessaging(ctx context.Context, kcfg config.KafkaConfig, a *app.App, logger logging.Logger) (handlers.CalendarNotifier, *kafka.Consumer, func(), error) {
	tm, err := kafka.NewTopicManager(kcfg.Brokers, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("kafka: %w", err)
	}
	setupCtx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	err = tm.EnsureTopics(setupCtx, kafka.DefaultTopics(kcfg))
	cancel()
	_ = tm.Close()
	if err != nil {
		logger.Warn("kafka topic setup failed; continuing with existing topics", logging.Err(err))
	}

	producer, err := kafka.NewProducer(kcfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	consumer, err := kafka.NewConsumer(kcfg, []string{kcfg.CalendarTopic, kcfg.CatalogTopic}, producer, logger)
	if err != nil {
		_ = producer.Close()
		return nil, nil, nil, fmt.Errorf("kafka consumer: %w", err)
	}
	deadline.NewEventHandlers(a.Service, a.Metrics, logger).Register(consumer, kcfg.CalendarTopic, kcfg.CatalogTopic)

	closeFn := func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("kafka consumer close failed", logging.Err(err))
		}
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	return deadline.NewNotifier(producer, kcfg.CalendarTopic, kcfg.CatalogTopic, eventSource), consumer, closeFn, nil
}

func newLimiter(hc config.HTTPConfig) *middleware.TokenBucketLimiter {
	if hc.RateLimitRPS <= 0 {
		return nil
	}
	burst := hc.RateLimitBurst
	if burst <= 0 {
		burst = int(hc.RateLimitRPS)
	}
	if burst < 1 {
		burst = 1
	}
	return middleware.NewTokenBucketLimiter(hc.RateLimitRPS, burst, limiterCleanup)
}

func buildRouter(cfg *config.Config, a *app.App, collector prometheus.MetricsCollector, limiter *middleware.TokenBucketLimiter,
	notifier handlers.CalendarNotifier, logger logging.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.HTTP.Mode)

	rc := httpserver.RouterConfig{
		DeadlineHandler: handlers.NewDeadlineHandler(a.Service, logger),
		CalendarHandler: handlers.NewCalendarHandler(a.Service, logger),
		ConflictHandler: handlers.NewConflictHandler(a.Service, logger),
		CatalogHandler:  handlers.NewCatalogHandler(a.Service, logger),
		AdminHandler:    handlers.NewAdminHandler(a.Service, a.Writer, notifier, logger),
		HealthHandler:   handlers.NewHealthHandler(Version, a.HealthCheckers()...),
		AdminAuth:       middleware.NewAdminAuth(cfg.Server.HTTP.AdminKeys, logger),
		Logging:         middleware.DefaultLoggingConfig(),
		Logger:          logger,
		Metrics:         a.Metrics,
		MaxBodySize:     cfg.Server.HTTP.MaxBodySize,
	}
	if limiter != nil {
		rc.RateLimiter = limiter
	}
	if len(cfg.Server.HTTP.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.HTTP.CORSOrigins
		rc.CORS = &cors
	}
	if cfg.Monitoring.Prometheus.Enabled {
		rc.MetricsCollector = collector
		rc.MetricsPath = cfg.Monitoring.Prometheus.Path
	}
	return httpserver.NewRouter(rc)
}

//Personal.AI order the ending
