package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/metrics"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const serviceName = "cityguide-blog-api"

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// poolStatser is implemented by checkers backed by a connection pool
type poolStatser interface {
	Stats() sql.DBStats
}

// NewRouter creates and configures the Gin router. health may be nil.
func NewRouter(services *service.Services, cfg *config.Config, health HealthChecker, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.Server.CORSAllowedOrigins))

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)
	authHandler := NewAuthHandler(services, log)
	contactHandler := NewContactHandler(services, log)
	settingsHandler := NewSettingsHandler(services, log)
	siteHandler := NewSiteHandler(services, log)

	requireAdmin := authMiddleware(services.Auth, log)
	loginLimiter := newIPRateLimiter(cfg.Auth.LoginRatePerMinute)

	// Health check
	router.GET("/health", healthCheck(health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/", welcome)
		api.GET("/stats", articleHandler.Stats)

		api.GET("/articles", articleHandler.ListPublished)
		api.GET("/articles/:slug", articleHandler.GetBySlug)

		api.POST("/contact", contactHandler.Submit)
		api.GET("/analytics-public", settingsHandler.PublicAnalytics)

		api.GET("/sitemap.xml", siteHandler.Sitemap)
		api.GET("/robots.txt", siteHandler.Robots)

		admin := api.Group("/admin")
		{
			admin.POST("/register", authHandler.Register)
			admin.POST("/login", loginLimiter.middleware(log), authHandler.Login)

			secured := admin.Group("", requireAdmin)
			secured.GET("/me", authHandler.Me)
			secured.POST("/change-password", authHandler.ChangePassword)

			secured.GET("/articles", articleHandler.ListAll)
			secured.POST("/articles", uploadHandler.Create)
			secured.POST("/articles/upload-file", uploadHandler.UploadFile)
			secured.POST("/articles/upload-markdown", uploadHandler.UploadFile)
			secured.GET("/articles/:id", articleHandler.Get)
			secured.GET("/export/articles", exportHandler.StreamExport)
			secured.PUT("/articles/:id", articleHandler.Update)
			secured.DELETE("/articles/:id", articleHandler.Delete)
			secured.DELETE("/articles", articleHandler.DeleteAll)

			secured.GET("/analytics-config", settingsHandler.GetAnalytics)
			secured.POST("/analytics-config", settingsHandler.UpdateAnalytics)

			secured.GET("/contacts", contactHandler.List)
		}
	}

	return router
}

// healthCheck returns the health status, including a database ping when available
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   serviceName,
			"database":  "not configured",
		}

		if health != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = "unreachable"
			} else {
				body["database"] = "connected"
			}
			if p, ok := health.(poolStatser); ok {
				stats := p.Stats()
				body["connections"] = gin.H{
					"open":   stats.OpenConnections,
					"in_use": stats.InUse,
					"idle":   stats.Idle,
				}
			}
		}

		c.JSON(status, body)
	}
}

func welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Bangalore city guide blog API"})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware handles CORS for the configured origins; "*" allows any
func corsMiddleware(allowed []string) gin.HandlerFunc {
	wildcard := false
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		origins[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		switch {
		case wildcard:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && origins[origin]:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
