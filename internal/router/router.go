package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"adoptions/internal/config"
	_ "adoptions/internal/docs"
	"adoptions/internal/handler"
	"adoptions/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Queue     *handler.QueueHandler
	Review    *handler.ReviewHandler
	Records   *handler.RecordHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware. gatherer
// backs /metrics; nil uses the default registry.
func Setup(cfg *config.Config, h Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.Extractor.MaxFileSizeBytes()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks and operational endpoints
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(middleware.NewRateLimiter(
		cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 10*time.Minute)))

	queue := v1.Group("/queue")
	queue.GET("", h.Queue.List)
	queue.DELETE("", h.Queue.Clear)
	queue.POST("/files", h.Queue.UploadFiles)
	queue.POST("/text", h.Queue.EnqueueText)
	queue.GET("/events", h.Queue.Events)
	queue.POST("/run", h.Queue.Run)
	queue.POST("/stop", h.Queue.Stop)
	queue.POST("/retry", h.Queue.Retry)
	queue.DELETE("/completed", h.Queue.RemoveCompleted)

	review := v1.Group("/review")
	review.GET("/current", h.Review.Current)
	review.POST("/present/:id", h.Review.Present)
	review.PATCH("/fields", h.Review.UpdateField)
	review.POST("/texts", h.Review.AddText)
	review.DELETE("/texts/:textId", h.Review.RemoveText)
	review.PUT("/texts/:textId/position", h.Review.MoveText)
	review.PUT("/texts/:textId/principal", h.Review.SetPrincipal)
	review.POST("/texts/:textId/authors", h.Review.AddAuthor)
	review.DELETE("/texts/:textId/authors/:index", h.Review.RemoveAuthor)
	review.GET("/validation", h.Review.Validation)
	review.POST("/confirm", h.Review.Confirm)
	review.POST("/discard", h.Review.Discard)

	records := v1.Group("/records")
	records.GET("", h.Records.List)
	records.DELETE("", h.Records.Clear)
	records.GET("/export.json", h.Records.ExportJSON)
	records.GET("/export.csv", h.Records.ExportCSV)
	records.GET("/export.xlsx", h.Records.ExportXLSX)
	records.POST("/import", h.Records.Import)
	records.GET("/:id", h.Records.GetByID)
	records.DELETE("/:id", h.Records.Delete)

	dashboard := v1.Group("/dashboard")
	dashboard.GET("/groups", h.Dashboard.Groups)
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/options", h.Dashboard.Options)
	dashboard.GET("/preferences", h.Dashboard.GetPreferences)
	dashboard.PUT("/preferences", h.Dashboard.SavePreferences)

	v1.GET("/settings", h.Settings.Get)
	v1.PUT("/settings", h.Settings.Update)
	v1.GET("/degree-classes", h.Settings.DegreeClasses)

	return r
}
