package class

import (
	"context"
	"errors"
	"log/slog"

	"school-service/internal/messaging"
	"school-service/internal/metrics"
)

const entityName = "class"

var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherLookup reports whether a teacher exists.
type TeacherLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Service interface {
	CreateClass(ctx context.Context, req CreateClassRequest) (*Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
}

type service struct {
	repo      Repository
	teachers  TeacherLookup
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, teachers TeacherLookup, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		teachers:  teachers,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) CreateClass(ctx context.Context, req CreateClassRequest) (*Class, error) {
	if req.TeacherID != nil {
		exists, err := s.teachers.Exists(ctx, *req.TeacherID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrTeacherNotFound
		}
	}

	capacity := DefaultMaxCapacity
	if req.MaxCapacity != nil {
		capacity = *req.MaxCapacity
	}

	created, err := s.repo.Create(ctx, &Class{
		ClassName:   req.ClassName,
		GradeLevel:  string(req.GradeLevel),
		TeacherID:   req.TeacherID,
		MaxCapacity: capacity,
		RoomNumber:  req.RoomNumber,
		Status:      StatusActive,
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

func (s *service) ListClasses(ctx context.Context) ([]Class, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordListViewed(ctx, entityName)
	return classes, nil
}
