package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/server/handlers"
)

// Handlers groups the HTTP adapters served by the API.
type Handlers struct {
	Production *handlers.ProductionHandler
	Dashboard  *handlers.DashboardHandler
	RFT        *handlers.RFTHandler
	Settings   *handlers.SettingsHandler
	Stream     *handlers.StreamHandler
}

// New wires the Gin engine with required routes and middlewares. gatherer
// backs /metrics and may be nil.
func New(h Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/dashboard", h.Dashboard.Overview)
	api.GET("/shifts", h.Dashboard.Shifts)
	api.GET("/shifts/export.csv", h.Dashboard.ShiftsCSV)

	production := api.Group("/production")
	production.GET("", h.Production.List)
	production.POST("", h.Production.Save)
	production.GET("/summary", h.Production.Summary)
	production.GET("/export.csv", h.Production.ExportCSV)
	production.GET("/export.xlsx", h.Production.ExportXLSX)
	production.POST("/extract", h.Production.Extract)
	production.DELETE("/:id", h.Production.Delete)
	production.GET("/:id/report", h.Production.Report)
	production.GET("/:id/insight.csv", h.Production.Insight)
	production.POST("/:id/share", h.Production.Share)

	rft := api.Group("/rft")
	rft.GET("", h.RFT.List)
	rft.POST("", h.RFT.Save)
	rft.GET("/summary", h.RFT.Summary)
	rft.POST("/extract", h.RFT.Extract)
	rft.DELETE("/:id", h.RFT.Delete)
	rft.GET("/:id/operators", h.RFT.Operators)

	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings", h.Settings.Update)

	api.GET("/stream/:collection", h.Stream.Stream)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
