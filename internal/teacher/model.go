package teacher

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	ID             int       `bun:"id,pk,autoincrement"`
	TeacherCode    string    `bun:"teacher_id,type:varchar(40),unique,notnull"`
	FirstName      string    `bun:"first_name,type:varchar(100),notnull"`
	LastName       string    `bun:"last_name,type:varchar(100),notnull"`
	Email          string    `bun:"email,type:varchar(120),unique,notnull"`
	Phone          *string   `bun:"phone,type:varchar(20)"`
	Specialization *string   `bun:"specialization,type:varchar(100)"`
	HireDate       time.Time `bun:"hire_date,nullzero,notnull,default:current_timestamp"`
	Status         string    `bun:"status,type:varchar(20),notnull,default:'active'"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type CreateTeacherRequest struct {
	TeacherID      *string `json:"teacher_id"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
}

type Response struct {
	ID             int       `json:"id"`
	TeacherID      string    `json:"teacher_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone"`
	Specialization *string   `json:"specialization"`
	HireDate       time.Time `json:"hire_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListResponse struct {
	Teachers    []Response `json:"teachers"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}

func (t *Teacher) ToResponse() Response {
	return Response{
		ID:             t.ID,
		TeacherID:      t.TeacherCode,
		FirstName:      t.FirstName,
		LastName:       t.LastName,
		Email:          t.Email,
		Phone:          t.Phone,
		Specialization: t.Specialization,
		HireDate:       t.HireDate,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
