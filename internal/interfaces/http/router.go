package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/handlers"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/middleware"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree. Nil handlers leave their routes
// unregistered.
type RouterConfig struct {
	// Handlers
	DeadlineHandler *handlers.DeadlineHandler
	CalendarHandler *handlers.CalendarHandler
	ConflictHandler *handlers.ConflictHandler
	CatalogHandler  *handlers.CatalogHandler
	AdminHandler    *handlers.AdminHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	AdminAuth   *middleware.AdminAuth
	CORS        *middleware.CORSConfig
	RateLimiter middleware.RateLimiter
	Logging     middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	MaxBodySize      int64
}

// NewRouter constructs the complete route tree: global middleware, the
// public probes, /metrics, the /api/v1 resources and the key-guarded
// /api/v1/admin group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.MaxBodySize > 0 {
		r.Use(limitBody(cfg.MaxBodySize))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:      errors.ErrCodeNotFound.String(),
			Message:   "route not found",
			RequestID: middleware.GetRequestID(c),
		})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.ErrorResponse{
			Code:      errors.ErrCodeBadRequest.String(),
			Message:   "method not allowed",
			RequestID: middleware.GetRequestID(c),
		})
	})

	// --- Public probes ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		r.GET(cfg.MetricsPath, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, middleware.RateLimitConfig{}))
	}
	if cfg.DeadlineHandler != nil {
		cfg.DeadlineHandler.RegisterRoutes(api)
	}
	if cfg.CalendarHandler != nil {
		cfg.CalendarHandler.RegisterRoutes(api)
	}
	if cfg.ConflictHandler != nil {
		cfg.ConflictHandler.RegisterRoutes(api)
	}
	if cfg.CatalogHandler != nil {
		cfg.CatalogHandler.RegisterRoutes(api)
	}

	// --- Admin (key-guarded) ---
	if cfg.AdminHandler != nil {
		auth := cfg.AdminAuth
		if auth == nil {
			auth = middleware.NewAdminAuth(nil, cfg.Logger)
		}
		admin := api.Group("/admin", auth.Handler())
		cfg.AdminHandler.RegisterRoutes(admin)
	}

	return r
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

//Personal.AI order the ending
