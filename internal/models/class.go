package models

import "time"

// Class groups students within a department for one academic year.
type Class struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Section        string    `db:"section" json:"section"`
	DepartmentID   string    `db:"department_id" json:"department_id"`
	ClassTeacherID *string   `db:"class_teacher_id" json:"class_teacher_id,omitempty"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	Capacity       int       `db:"capacity" json:"capacity"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ClassFilter scopes class listing queries.
type ClassFilter struct {
	DepartmentID string
	AcademicYear string
	TeacherID    string
	Page         int
	PageSize     int
}
