package models

import "time"

// Assignment is coursework set by a teacher for one subject and class.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	TotalMarks  float64   `db:"total_marks" json:"total_marks"`
	Attachment  *string   `db:"attachment" json:"attachment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AssignmentFilter scopes assignment listing queries.
type AssignmentFilter struct {
	ClassID   string
	SubjectID string
	TeacherID string
	DueAfter  *time.Time
	Page      int
	PageSize  int
}

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Submission is a student's answer to an assignment. At most one row exists
// per (assignment, student); the store enforces this atomically. IsLate is
// computed once at creation against the assignment due date and never
// recomputed afterwards.
type Submission struct {
	ID            string           `db:"id" json:"id"`
	AssignmentID  string           `db:"assignment_id" json:"assignment_id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	Text          *string          `db:"text" json:"text,omitempty"`
	File          *string          `db:"file" json:"file,omitempty"`
	SubmittedAt   time.Time        `db:"submitted_at" json:"submitted_at"`
	IsLate        bool             `db:"is_late" json:"is_late"`
	Status        SubmissionStatus `db:"status" json:"status"`
	MarksObtained *float64         `db:"marks_obtained" json:"marks_obtained,omitempty"`
	Feedback      *string          `db:"feedback" json:"feedback,omitempty"`
	GradedBy      *string          `db:"graded_by" json:"graded_by,omitempty"`
	GradedAt      *time.Time       `db:"graded_at" json:"graded_at,omitempty"`
}

// AssignmentOverview pairs an assignment with the caller's submission, if any.
type AssignmentOverview struct {
	Assignment
	Submission *Submission `json:"submission,omitempty"`
}
