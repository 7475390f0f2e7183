package models

import "time"

// Teacher is the staff profile linked 1:1 to a user account.
type Teacher struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	DepartmentID    string    `db:"department_id" json:"department_id"`
	Qualification   string    `db:"qualification" json:"qualification"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	JoiningDate     time.Time `db:"joining_date" json:"joining_date"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherDetail extends the profile with user account metadata.
type TeacherDetail struct {
	Teacher
	Email    string `db:"email" json:"email"`
	FullName string `db:"full_name" json:"full_name"`
}

// TeacherFilter scopes teacher listing queries.
type TeacherFilter struct {
	DepartmentID string
	Search       string
	Active       *bool
	Page         int
	PageSize     int
}
