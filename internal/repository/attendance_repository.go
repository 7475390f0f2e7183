package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// AttendanceRepository handles attendance persistence. Records are keyed by
// (student_id, subject_id, date); re-marking the same key overwrites.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes one attendance record, overwriting any existing record for
// the same student, subject and date.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, student_id, subject_id, date, is_present, marked_by, remarks, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :date, :is_present, :marked_by, :remarks, :created_at, :updated_at)
        ON CONFLICT (student_id, subject_id, date) DO UPDATE SET
            is_present = EXCLUDED.is_present,
            marked_by = EXCLUDED.marked_by,
            remarks = EXCLUDED.remarks,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// List returns attendance records matching the filter, newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	query := `SELECT a.id, a.student_id, a.subject_id, a.date, a.is_present, a.marked_by, a.remarks, a.created_at, a.updated_at
        FROM attendance a`
	var args []interface{}
	if filter.ClassID != "" {
		query += " JOIN students st ON st.id = a.student_id"
	}
	query += " WHERE 1=1"
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND a.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND a.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.ClassID != "" {
		query += fmt.Sprintf(" AND st.class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.MarkedBy != "" {
		query += fmt.Sprintf(" AND a.marked_by = $%d", len(args)+1)
		args = append(args, filter.MarkedBy)
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND a.date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND a.date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}
	query += " ORDER BY a.date DESC"

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Summary returns present and total counts for a student in a subject over an
// optional date range.
func (r *AttendanceRepository) Summary(ctx context.Context, studentID, subjectID string, from, to *time.Time) (*models.AttendanceSummary, error) {
	query := `SELECT COUNT(*) FILTER (WHERE is_present) AS present, COUNT(*) AS total
        FROM attendance WHERE student_id = $1`
	args := []interface{}{studentID}
	if subjectID != "" {
		query += fmt.Sprintf(" AND subject_id = $%d", len(args)+1)
		args = append(args, subjectID)
	}
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *to)
	}
	var summary models.AttendanceSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	return &summary, nil
}
