// Package schema lists the tables of the service in creation order.
package schema

import (
	"school-service/internal/class"
	"school-service/internal/db"
	"school-service/internal/student"
	"school-service/internal/teacher"
)

// Tables returns every table, referenced tables first.
func Tables() []db.Table {
	return []db.Table{
		{Model: (*teacher.Teacher)(nil)},
		{Model: (*class.Class)(nil), ForeignKeys: class.ForeignKeys},
		{Model: (*student.Student)(nil), ForeignKeys: student.ForeignKeys},
	}
}

// TableNames returns the table names in the same order as Tables.
func TableNames() []string {
	return []string{"teachers", "classes", "students"}
}
