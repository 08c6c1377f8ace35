package student

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"school-service/internal/pagination"

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
	students := router.Group("/api/students")
	for _, path := range []string{"", "/"} {
		students.GET(path, h.ListStudents)
		students.POST(path, h.CreateStudent)
	}
	students.GET("/:id", h.GetStudent)
	students.PUT("/:id", h.UpdateStudent)
	students.DELETE("/:id", h.DeleteStudent)
}

func (h *Handler) ListStudents(c *gin.Context) {
	page := pagination.FromQuery(c.Query("page"), c.Query("per_page"))

	h.logger.InfoContext(c.Request.Context(), "listing students", "page", page.Number, "per_page", page.PerPage)
	students, total, err := h.service.ListStudents(c.Request.Context(), page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	items := make([]Response, 0, len(students))
	for i := range students {
		items = append(items, students[i].ToResponse())
	}

	c.JSON(http.StatusOK, ListResponse{
		Students:    items,
		Total:       total,
		Pages:       page.TotalPages(total),
		CurrentPage: page.Number,
	})
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	student, err := h.service.GetStudentByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student.ToResponse())
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "creating student", "email", req.Email)
	student, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student.ToResponse())
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	// An empty body is an update with no fields.
	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "updating student", "id", id)
	student, err := h.service.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student.ToResponse())
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	h.logger.InfoContext(c.Request.Context(), "deleting student", "id", id)
	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

func (h *Handler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, ErrStudentNotFound):
		h.logger.InfoContext(ctx, "student not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
	case errors.Is(err, ErrClassNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class not found"})
	case errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
	case errors.Is(err, ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_of_birth"})
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
