package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/metrics"
)

// DefaultMaxUploadBytes caps the request body of workbook uploads
const DefaultMaxUploadBytes = 16 << 20

// Options configures the HTTP API
type Options struct {
	// Store is optional; without it solves are not persisted and the run routes answer 503
	Store  db.RunStore
	Sink   metrics.Sink
	Logger *zap.Logger

	// Budget is the default search budget and the ceiling for per-request budgets
	Budget solver.Budget

	// JWTSecret enables bearer auth on /api routes when non-empty
	JWTSecret []byte

	// Gatherer backs /metrics, prometheus.DefaultGatherer when nil
	Gatherer prometheus.Gatherer

	// MaxUploadBytes caps workbook request bodies, DefaultMaxUploadBytes when zero
	MaxUploadBytes int64
}

// Handler serves the scheduling API
type Handler struct {
	store  db.RunStore
	sink   metrics.Sink
	logger *zap.Logger
	budget solver.Budget

	maxUploadBytes int64
}

// NewRouter builds the gin engine with every route registered
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := opts.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	h := &Handler{store: opts.Store, sink: sink, logger: logger, budget: opts.Budget, maxUploadBytes: maxUpload}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.MaxMultipartMemory = maxUpload

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	if len(opts.JWTSecret) > 0 {
		v1.Use(AuthMiddleware(opts.JWTSecret))
	}
	{
		v1.POST("/solve", h.Solve)
		v1.POST("/solve/xlsx", h.SolveWorkbook)
		v1.POST("/validate", h.Validate)
		v1.GET("/runs", h.ListRuns)
		v1.GET("/runs/:id", h.GetRun)
	}

	return r
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
