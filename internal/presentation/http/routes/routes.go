package routes

import (
	"net/http"
	"time"

	"github.com/faarish/invoicing-api/internal/config"
	"github.com/faarish/invoicing-api/internal/metrics"
	"github.com/faarish/invoicing-api/internal/presentation/http/handler"
	"github.com/faarish/invoicing-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log *logrus.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.Metrics())

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	router.Use(rateLimiter.Middleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/invoice/next-number", h.Invoice.NextNumber)

		invoices := api.Group("/invoices")
		{
			invoices.GET("", h.Invoice.List)
			invoices.POST("", h.Invoice.Create)
			invoices.GET("/:id", h.Invoice.Get)
			invoices.GET("/:id/pdf", h.Invoice.PDF)
			invoices.PUT("/:id", h.Invoice.Update)
			invoices.DELETE("/:id", h.Invoice.Delete)
		}
	}

	// Serve the browser client for any non-API path
	if deps.Cfg.App.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(deps.Cfg.App.StaticDir))))
	}

	return router
}
