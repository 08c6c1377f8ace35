package health

import (
	"log/slog"
	"net/http"
	"time"

	"school-service/internal/db"
	"school-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
)

const dependencyDatabase = "postgres"

type Handler struct {
	db      bun.IDB
	service string
	version string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(database bun.IDB, service, version string, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		db:      database,
		service: service,
		version: version,
		metrics: m,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)
	router.GET("/health", h.Health)
}

type IndexResponse struct {
	Message string `json:"message"`
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Message: "School Management API",
		Service: h.service,
		Version: h.version,
		Status:  "running",
	})
}

func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	start := time.Now()
	err := db.Probe(ctx, h.db)
	h.metrics.Health.RecordDependencyCheck(ctx, dependencyDatabase, time.Since(start), err)

	if err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Timestamp: &now})
}
