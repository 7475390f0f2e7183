package models

import "time"

// Student is the learner profile linked 1:1 to a user account. A student
// belongs to exactly one class; the roll number is unique within that class.
type Student struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	ClassID       string    `db:"class_id" json:"class_id"`
	RollNumber    string    `db:"roll_number" json:"roll_number"`
	AdmissionDate time.Time `db:"admission_date" json:"admission_date"`
	GuardianName  string    `db:"guardian_name" json:"guardian_name"`
	GuardianPhone string    `db:"guardian_phone" json:"guardian_phone"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail extends the profile with user account and class metadata.
type StudentDetail struct {
	Student
	Email     string  `db:"email" json:"email"`
	FullName  string  `db:"full_name" json:"full_name"`
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// StudentFilter scopes student listing queries.
type StudentFilter struct {
	ClassID  string
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
