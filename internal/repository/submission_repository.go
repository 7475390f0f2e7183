package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// SubmissionRepository handles assignment submission persistence. A student
// submits at most once per assignment; the unique index enforces it.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, assignment_id, student_id, text, file, submitted_at, is_late, status, marks_obtained, feedback, graded_by, graded_at`

// Create inserts a submission. A second submission for the same assignment
// and student returns ErrDuplicateKey.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	const query = `INSERT INTO submissions (id, assignment_id, student_id, text, file, submitted_at, is_late, status)
        VALUES (:id, :assignment_id, :student_id, :text, :file, :submitted_at, :is_late, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// FindByID returns one submission.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE id = $1", submissionColumns)
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByAssignmentAndStudent returns a student's submission for an assignment.
func (r *SubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	var submission models.Submission
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE assignment_id = $1 AND student_id = $2", submissionColumns)
	if err := r.db.GetContext(ctx, &submission, query, assignmentID, studentID); err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByAssignment returns every submission for an assignment.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE assignment_id = $1 ORDER BY submitted_at ASC", submissionColumns)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list assignment submissions: %w", err)
	}
	return submissions, nil
}

// ListByStudent returns every submission a student has made.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE student_id = $1 ORDER BY submitted_at DESC", submissionColumns)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, studentID); err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}
	return submissions, nil
}

// UpdateGrade writes the grading fields. is_late and submitted_at are never
// touched after creation.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id string, marks float64, feedback, gradedBy string, gradedAt time.Time) error {
	const query = `UPDATE submissions SET marks_obtained = $1, feedback = $2, graded_by = $3, graded_at = $4, status = $5
        WHERE id = $6`
	if _, err := r.db.ExecContext(ctx, query, marks, feedback, gradedBy, gradedAt, models.SubmissionGraded, id); err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	return nil
}

// CountPendingForTeacher counts ungraded submissions on a teacher's
// assignments.
func (r *SubmissionRepository) CountPendingForTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM submissions s
        JOIN assignments a ON a.id = s.assignment_id
        WHERE a.teacher_id = $1 AND s.status = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, teacherID, models.SubmissionSubmitted); err != nil {
		return 0, fmt.Errorf("count pending submissions: %w", err)
	}
	return total, nil
}
