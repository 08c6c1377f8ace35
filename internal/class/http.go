package class

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

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
	classes := router.Group("/api/classes")
	for _, path := range []string{"", "/"} {
		classes.GET(path, h.ListClasses)
		classes.POST(path, h.CreateClass)
	}
}

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	items := make([]Response, 0, len(classes))
	for i := range classes {
		items = append(items, classes[i].ToResponse())
	}

	c.JSON(http.StatusOK, ListResponse{Classes: items, Total: len(items)})
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "creating class", "class_name", req.ClassName)
	class, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class.ToResponse())
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrTeacherNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher not found"})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), "internal error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
