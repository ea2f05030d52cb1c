package http

import (
	"net/http"
	"time"

	"mg_dashboard/internal/config"
	"mg_dashboard/internal/http/handlers"
	"mg_dashboard/internal/http/middleware"
	"mg_dashboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the settings the router reads from config
type RouterOptions struct {
	Version       string
	Environment   string
	CORSOrigins   []string
	APIRateLimit  int
	APIRateWindow time.Duration
}

// OptionsFromConfig maps the loaded config onto RouterOptions
func OptionsFromConfig(cfg *config.Config) RouterOptions {
	return RouterOptions{
		Version:       cfg.Version,
		Environment:   cfg.AppEnv,
		CORSOrigins:   cfg.CORSAllowOrigin,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: cfg.APIRateWindow,
	}
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(store handlers.TaskStore, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithContext(c.Request.Context()).Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
	}))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.CORSOrigins))

	RegisterRoutes(r, store, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, store handlers.TaskStore, opts RouterOptions) {
	h := handlers.NewHandler(store)
	healthHandler := handlers.NewHealthHandler(store, opts.Version, opts.Environment)

	// Health checks and metrics (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "mg-dashboard API server",
			"version": opts.Version,
			"endpoints": []string{
				"GET /api/health",
				"GET /api/health/database",
				"GET /api/tasks",
				"GET /api/tasks/:id",
				"POST /api/tasks",
				"PUT /api/tasks/:id",
				"DELETE /api/tasks/:id",
				"PATCH /api/tasks/:id/toggle",
			},
		})
	})

	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)
	api.GET("/health/database", healthHandler.Database)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RateLimit(opts.APIRateLimit, opts.APIRateWindow))
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.PATCH("/:id/toggle", h.ToggleTask)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
