package student

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
)

const dateLayout = "2006-01-02"

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID             int        `bun:"id,pk,autoincrement"`
	StudentCode    string     `bun:"student_id,type:varchar(40),unique,notnull"`
	FirstName      string     `bun:"first_name,type:varchar(100),notnull"`
	LastName       string     `bun:"last_name,type:varchar(100),notnull"`
	Email          string     `bun:"email,type:varchar(120),unique,notnull"`
	Phone          *string    `bun:"phone,type:varchar(20)"`
	DateOfBirth    *time.Time `bun:"date_of_birth,type:date"`
	EnrollmentDate time.Time  `bun:"enrollment_date,nullzero,notnull,default:current_timestamp"`
	ClassID        *int       `bun:"class_id"`
	Status         string     `bun:"status,type:varchar(20),notnull,default:'active'"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ForeignKeys are declared on table creation.
var ForeignKeys = []string{
	`("class_id") REFERENCES "classes" ("id") ON DELETE SET NULL`,
}

type CreateStudentRequest struct {
	StudentID   *string `json:"student_id"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	ClassID     *int    `json:"class_id"`
}

// UpdateStudentRequest holds the fields a PUT may overwrite. Absent keys keep
// their stored value. An explicit null clears phone, date_of_birth and
// class_id and is ignored for the required columns.
type UpdateStudentRequest struct {
	FirstName   *string          `json:"first_name"`
	LastName    *string          `json:"last_name"`
	Email       *string          `json:"email"`
	Phone       Nullable[string] `json:"phone"`
	Status      *string          `json:"status"`
	DateOfBirth Nullable[string] `json:"date_of_birth"`
	ClassID     Nullable[int]    `json:"class_id"`
}

type Response struct {
	ID             int       `json:"id"`
	StudentID      string    `json:"student_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone"`
	DateOfBirth    *string   `json:"date_of_birth"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	ClassID        *int      `json:"class_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListResponse struct {
	Students    []Response `json:"students"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}

func (s *Student) ToResponse() Response {
	var dob *string
	if s.DateOfBirth != nil {
		formatted := s.DateOfBirth.Format(dateLayout)
		dob = &formatted
	}

	return Response{
		ID:             s.ID,
		StudentID:      s.StudentCode,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		DateOfBirth:    dob,
		EnrollmentDate: s.EnrollmentDate,
		ClassID:        s.ClassID,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func validStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
