// Package stats serves aggregate row counts.
package stats

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter is satisfied by every entity repository.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	students Counter
	teachers Counter
	classes  Counter
	logger   *slog.Logger
}

func NewHandler(students, teachers, classes Counter, logger *slog.Logger) *Handler {
	return &Handler{
		students: students,
		teachers: teachers,
		classes:  classes,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/stats", h.Stats)
	router.GET("/api/stats/", h.Stats)
}

type Response struct {
	TotalStudents int       `json:"total_students"`
	TotalTeachers int       `json:"total_teachers"`
	TotalClasses  int       `json:"total_classes"`
	Timestamp     time.Time `json:"timestamp"`
}

func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var resp Response
	for _, count := range []struct {
		counter Counter
		dst     *int
	}{
		{h.students, &resp.TotalStudents},
		{h.teachers, &resp.TotalTeachers},
		{h.classes, &resp.TotalClasses},
	} {
		n, err := count.counter.Count(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to count records", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		*count.dst = n
	}

	resp.Timestamp = time.Now().UTC()
	c.JSON(http.StatusOK, resp)
}
