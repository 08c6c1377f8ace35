package teacher

import (
	"context"
	"log/slog"

	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/pagination"
	"school-service/internal/refcode"
)

const entityName = "teacher"

type Service interface {
	CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*Teacher, error)
	ListTeachers(ctx context.Context, page pagination.Page) ([]Teacher, int, error)
}

type service struct {
	repo      Repository
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*Teacher, error) {
	code := refcode.New(refcode.TeacherPrefix)
	if req.TeacherID != nil && *req.TeacherID != "" {
		code = *req.TeacherID
	}

	created, err := s.repo.Create(ctx, &Teacher{
		TeacherCode:    code,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Status:         StatusActive,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, entityName)

	event := messaging.NewEvent(entityName, messaging.ActionCreated, created.ID, created.ToResponse())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change event", "type", event.Type, "id", created.ID, "error", err)
	}
	return created, nil
}

func (s *service) ListTeachers(ctx context.Context, page pagination.Page) ([]Teacher, int, error) {
	teachers, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	s.metrics.RecordListViewed(ctx, entityName)
	return teachers, total, nil
}
