package models

import "time"

// ReportType selects what a report job renders.
type ReportType string

const (
	ReportReportCard         ReportType = "report_card"
	ReportAttendanceRegister ReportType = "attendance_register"
)

// ReportStatus tracks a report job through the queue.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportRunning   ReportStatus = "running"
	ReportCompleted ReportStatus = "completed"
	ReportFailed    ReportStatus = "failed"
)

// ReportJob is a queued export request.
type ReportJob struct {
	ID          string       `db:"id" json:"id"`
	Type        ReportType   `db:"type" json:"type"`
	RequestedBy string       `db:"requested_by" json:"requested_by"`
	StudentID   *string      `db:"student_id" json:"student_id,omitempty"`
	ClassID     *string      `db:"class_id" json:"class_id,omitempty"`
	SubjectID   *string      `db:"subject_id" json:"subject_id,omitempty"`
	Status      ReportStatus `db:"status" json:"status"`
	FilePath    *string      `db:"file_path" json:"-"`
	Error       *string      `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
