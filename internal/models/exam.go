package models

import "time"

// ExamType categorises an examination.
type ExamType string

const (
	ExamInternal   ExamType = "internal"
	ExamMidTerm    ExamType = "mid_term"
	ExamFinal      ExamType = "final"
	ExamAssignment ExamType = "assignment"
	ExamQuiz       ExamType = "quiz"
)

// Valid returns true when the exam type is a supported value.
func (t ExamType) Valid() bool {
	switch t {
	case ExamInternal, ExamMidTerm, ExamFinal, ExamAssignment, ExamQuiz:
		return true
	default:
		return false
	}
}

// Examination is a scheduled assessment for one subject and class.
type Examination struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Type         ExamType  `db:"type" json:"type"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	Date         time.Time `db:"date" json:"date"`
	TotalMarks   float64   `db:"total_marks" json:"total_marks"`
	PassingMarks float64   `db:"passing_marks" json:"passing_marks"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Result records the marks a student obtained in one examination. At most one
// row exists per (student, examination). The grade is never stored: it is
// derived from marks and total whenever a result is read.
type Result struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ExaminationID string    `db:"examination_id" json:"examination_id"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	Remarks       *string   `db:"remarks" json:"remarks,omitempty"`
	EnteredBy     string    `db:"entered_by" json:"entered_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ResultDetail joins the examination context needed to derive grade and
// percentage, plus the derived values themselves.
type ResultDetail struct {
	Result
	ExamName     string    `db:"exam_name" json:"exam_name"`
	ExamType     ExamType  `db:"exam_type" json:"exam_type"`
	ExamDate     time.Time `db:"exam_date" json:"exam_date"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TotalMarks   float64   `db:"total_marks" json:"total_marks"`
	PassingMarks float64   `db:"passing_marks" json:"passing_marks"`
	Percentage   float64   `db:"-" json:"percentage"`
	Grade        string    `db:"-" json:"grade"`
	Passed       bool      `db:"-" json:"passed"`
}

// ResultFilter scopes result queries.
type ResultFilter struct {
	StudentID     string
	ExaminationID string
	SubjectID     string
	ExamType      ExamType
	EnteredBy     string
}
