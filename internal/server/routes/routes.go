package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskapi/internal/server/handler"
	"taskapi/internal/server/middleware"
	"taskapi/internal/telemetry"
)

// Config carries everything the router needs. Optional pieces
// (access logger, rate limiter, metrics registry) are skipped when nil.
type Config struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler

	ServiceName     string
	CORSAllowOrigin string

	AccessLogger *otelzap.Logger
	Metrics      *telemetry.AppMetrics
	RateLimiter  *middleware.RateLimiter
	Registry     *prometheus.Registry
}

func SetupRouter(cfg Config) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	if cfg.AccessLogger != nil {
		router.Use(middleware.AccessLog(cfg.AccessLogger))
	}

	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}

	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowOrigin))

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	if cfg.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	if cfg.HealthHandler != nil {
		router.GET("/healthz", cfg.HealthHandler.Check)
	}

	tasks := router.Group("/tasks")
	{
		tasks.POST("", cfg.TaskHandler.CreateTask)
		tasks.GET("", cfg.TaskHandler.ListTasks)
		tasks.GET("/:taskId", cfg.TaskHandler.GetTask)
		tasks.PUT("/:taskId", cfg.TaskHandler.UpdateTask)
		tasks.DELETE("/:taskId", cfg.TaskHandler.DeleteTask)
	}

	return router
}
