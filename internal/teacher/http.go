package teacher

import (
	"log/slog"
	"net/http"

	"school-service/internal/pagination"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler exposes listing and creation only. Teachers cannot be updated or
// deleted over HTTP.
type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	teachers := router.Group("/api/teachers")
	for _, path := range []string{"", "/"} {
		teachers.GET(path, h.ListTeachers)
		teachers.POST(path, h.CreateTeacher)
	}
}

func (h *Handler) ListTeachers(c *gin.Context) {
	page := pagination.FromQuery(c.Query("page"), c.Query("per_page"))

	h.logger.InfoContext(c.Request.Context(), "listing teachers", "page", page.Number, "per_page", page.PerPage)
	teachers, total, err := h.service.ListTeachers(c.Request.Context(), page)
	if err != nil {
		h.internalError(c, err)
		return
	}

	items := make([]Response, 0, len(teachers))
	for i := range teachers {
		items = append(items, teachers[i].ToResponse())
	}

	c.JSON(http.StatusOK, ListResponse{
		Teachers:    items,
		Total:       total,
		Pages:       page.TotalPages(total),
		CurrentPage: page.Number,
	})
}

func (h *Handler) CreateTeacher(c *gin.Context) {
	var req CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "creating teacher", "email", req.Email)
	teacher, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher.ToResponse())
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.ErrorContext(c.Request.Context(), "internal error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
