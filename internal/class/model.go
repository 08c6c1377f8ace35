package class

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusActive       = "active"
	DefaultMaxCapacity = 40
)

type Class struct {
	bun.BaseModel `bun:"table:classes,alias:c"`

	ID          int       `bun:"id,pk,autoincrement"`
	ClassName   string    `bun:"class_name,type:varchar(100),unique,notnull"`
	GradeLevel  string    `bun:"grade_level,type:varchar(20),notnull"`
	TeacherID   *int      `bun:"teacher_id"`
	MaxCapacity int       `bun:"max_capacity,notnull,default:40"`
	RoomNumber  *string   `bun:"room_number,type:varchar(20)"`
	Status      string    `bun:"status,type:varchar(20),notnull,default:'active'"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	// StudentCount is filled by List from a sub-select, never stored.
	StudentCount int `bun:"student_count,scanonly"`
}

var ForeignKeys = []string{
	`("teacher_id") REFERENCES "teachers" ("id") ON DELETE SET NULL`,
}

type CreateClassRequest struct {
	ClassName   string     `json:"class_name" validate:"required"`
	GradeLevel  GradeLevel `json:"grade_level" validate:"required"`
	TeacherID   *int       `json:"teacher_id"`
	MaxCapacity *int       `json:"max_capacity"`
	RoomNumber  *string    `json:"room_number"`
}

// GradeLevel accepts a JSON string or number ("5" and 5 are the same grade).
type GradeLevel string

func (g *GradeLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*g = GradeLevel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = GradeLevel(n.String())
	return nil
}

type Response struct {
	ID           int       `json:"id"`
	ClassName    string    `json:"class_name"`
	GradeLevel   string    `json:"grade_level"`
	TeacherID    *int      `json:"teacher_id"`
	MaxCapacity  int       `json:"max_capacity"`
	RoomNumber   *string   `json:"room_number"`
	Status       string    `json:"status"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListResponse struct {
	Classes []Response `json:"classes"`
	Total   int        `json:"total"`
}

func (c *Class) ToResponse() Response {
	return Response{
		ID:           c.ID,
		ClassName:    c.ClassName,
		GradeLevel:   c.GradeLevel,
		TeacherID:    c.TeacherID,
		MaxCapacity:  c.MaxCapacity,
		RoomNumber:   c.RoomNumber,
		Status:       c.Status,
		StudentCount: c.StudentCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
