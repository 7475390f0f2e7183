package models

import "time"

// Subject is a course unit belonging to one department.
type Subject struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Credits      int       `db:"credits" json:"credits"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Semester     int       `db:"semester" json:"semester"`
	Description  *string   `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SubjectFilter scopes subject listing queries.
type SubjectFilter struct {
	DepartmentID string
	Semester     int
	Search       string
	Page         int
	PageSize     int
}
