package models

import "time"

// Attendance is one presence record. At most one row exists per
// (student, subject, date); re-marking overwrites presence, remarks and the
// marking teacher (last write wins, no history).
type Attendance struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Date      time.Time `db:"date" json:"date"`
	IsPresent bool      `db:"is_present" json:"is_present"`
	MarkedBy  string    `db:"marked_by" json:"marked_by"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes ledger queries. All fields are optional except
// StudentID for per-student aggregation.
type AttendanceFilter struct {
	StudentID string
	SubjectID string
	ClassID   string
	MarkedBy  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// AttendanceSummary carries the raw counts behind a percentage.
type AttendanceSummary struct {
	Present int `db:"present" json:"present"`
	Total   int `db:"total" json:"total"`
}

// AttendancePercentage is the derived aggregation result. An empty filtered
// set yields zero values, not an error.
type AttendancePercentage struct {
	StudentID  string  `json:"student_id"`
	SubjectID  string  `json:"subject_id,omitempty"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
