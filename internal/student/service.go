package student

import (
	"context"
	"errors"
	"log/slog"

	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/pagination"
	"school-service/internal/refcode"
)

const entityName = "student"

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDate     = errors.New("invalid date_of_birth")
	ErrClassNotFound   = errors.New("class not found")
)

// ClassLookup reports whether a class exists.
type ClassLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Service interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error)
	ListStudents(ctx context.Context, page pagination.Page) ([]Student, int, error)
	GetStudentByID(ctx context.Context, id int) (*Student, error)
	UpdateStudent(ctx context.Context, id int, req UpdateStudentRequest) (*Student, error)
	DeleteStudent(ctx context.Context, id int) error
}

type service struct {
	repo      Repository
	classes   ClassLookup
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, classes ClassLookup, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		classes:   classes,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := s.checkClass(ctx, req.ClassID); err != nil {
		return nil, err
	}

	code := refcode.New(refcode.StudentPrefix)
	if req.StudentID != nil && *req.StudentID != "" {
		code = *req.StudentID
	}

	created, err := s.repo.Create(ctx, &Student{
		StudentCode: code,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: dob,
		ClassID:     req.ClassID,
		Status:      StatusActive,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(ctx, entityName)
	s.publish(ctx, messaging.ActionCreated, created)
	return created, nil
}

func (s *service) ListStudents(ctx context.Context, page pagination.Page) ([]Student, int, error) {
	students, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	s.metrics.RecordListViewed(ctx, entityName)
	return students, total, nil
}

func (s *service) GetStudentByID(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrStudentNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, id int, req UpdateStudentRequest) (*Student, error) {
	if id <= 0 {
		return nil, ErrStudentNotFound
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}
	dob, err := parseDate(req.DateOfBirth.Value)
	if err != nil {
		return nil, err
	}
	if err := s.checkClass(ctx, req.ClassID.Value); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, func(st *Student) {
		if req.FirstName != nil {
			st.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			st.LastName = *req.LastName
		}
		if req.Email != nil {
			st.Email = *req.Email
		}
		if req.Status != nil {
			st.Status = *req.Status
		}
		if req.Phone.Set {
			st.Phone = req.Phone.Value
		}
		if req.DateOfBirth.Set {
			st.DateOfBirth = dob
		}
		if req.ClassID.Set {
			st.ClassID = req.ClassID.Value
		}
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordUpdated(ctx, entityName)
	s.publish(ctx, messaging.ActionUpdated, updated)
	return updated, nil
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrStudentNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordDeleted(ctx, entityName)
	s.publish(ctx, messaging.ActionDeleted, &Student{ID: id})
	return nil
}

func (s *service) checkClass(ctx context.Context, classID *int) error {
	if classID == nil {
		return nil
	}
	exists, err := s.classes.Exists(ctx, *classID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrClassNotFound
	}
	return nil
}

// publish is best effort: the change is already committed.
func (s *service) publish(ctx context.Context, action string, st *Student) {
	var data interface{}
	if action != messaging.ActionDeleted {
		data = st.ToResponse()
	}
	event := messaging.NewEvent(entityName, action, st.ID, data)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change event", "type", event.Type, "id", st.ID, "error", err)
	}
}
