package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/storage"
	"github.com/community-cms-api/pkg/logger"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// syncTimeout bounds the external review fetch triggered over HTTP
const syncTimeout = 30 * time.Second

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowOrigin))
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Handlers
	communityHandler := NewCommunityHandler(services, cfg, log)
	faqHandler := NewFAQHandler(services, log)
	reviewHandler := NewReviewHandler(services, log)
	resourceHandler := NewResourceHandler(services, cfg, log)

	router.GET("/health", healthCheck(services))
	router.GET("/uploads/*key", serveUpload(services, log))

	api := router.Group("/api")
	{
		admin := api.Group("/admin")
		{
			admin.POST("/community-pages", communityHandler.Upsert)
			admin.GET("/community-pages", communityHandler.List)
			admin.GET("/community-pages/:id", communityHandler.Get)
			admin.DELETE("/community-pages/:id", communityHandler.Delete)

			admin.GET("/fetch-google-reviews", reviewHandler.Sync)
			admin.GET("/google-reviews", reviewHandler.List)
			admin.POST("/google-reviews/select", reviewHandler.Select)
		}

		api.GET("/community-pages/:slug", communityHandler.GetBySlug)
		api.POST("/save-selected", communityHandler.SaveSelection)
		api.GET("/selected", communityHandler.GetSelection)
		api.GET("/public", communityHandler.Public)

		api.GET("/google-reviews", reviewHandler.ListSelected)

		faqs := api.Group("/faqs")
		{
			faqs.GET("", faqHandler.List)
			faqs.POST("", faqHandler.Create)
			faqs.PUT("/:id", faqHandler.Update)
			faqs.DELETE("/:id", faqHandler.Delete)
		}

		resources := api.Group("/resources")
		{
			resources.POST("/upload", resourceHandler.Upload)
			resources.GET("", resourceHandler.List)
			resources.DELETE("/:id", resourceHandler.Delete)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if services.Ping != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := services.Ping(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// serveUpload streams a stored hero image or resource
func serveUpload(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, info, err := services.Upload.Open(c.Request.Context(), c.Param("key"))
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("key", c.Param("key")).Msg("Failed to open upload")
			c.Status(http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		contentType := info.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
		c.DataFromReader(http.StatusOK, info.Size, contentType, rc, nil)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
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

// corsMiddleware handles CORS
func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewServer wraps handler in an http.Server with the configured timeouts
func NewServer(cfg *config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
