package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// ResultRepository handles exam result persistence. Results are keyed by
// (student_id, examination_id); re-entering marks overwrites.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert writes one result, overwriting any existing result for the same
// student and examination.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	result.CreatedAt = now
	result.UpdatedAt = now
	const query = `INSERT INTO results (id, student_id, examination_id, marks_obtained, remarks, entered_by, created_at, updated_at)
        VALUES (:id, :student_id, :examination_id, :marks_obtained, :remarks, :entered_by, :created_at, :updated_at)
        ON CONFLICT (student_id, examination_id) DO UPDATE SET
            marks_obtained = EXCLUDED.marks_obtained,
            remarks = EXCLUDED.remarks,
            entered_by = EXCLUDED.entered_by,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

const resultDetailColumns = `r.id, r.student_id, r.examination_id, r.marks_obtained, r.remarks, r.entered_by, r.created_at, r.updated_at,
        e.name AS exam_name, e.type AS exam_type, e.date AS exam_date, e.subject_id, e.total_marks, e.passing_marks`

// ListByStudent returns a student's results joined with exam metadata,
// ordered by exam date ascending so the sequence feeds trend analysis.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error) {
	query := "SELECT " + resultDetailColumns + ` FROM results r
        JOIN examinations e ON e.id = r.examination_id
        WHERE r.student_id = $1`
	args := []interface{}{studentID}
	if filter.ExaminationID != "" {
		query += fmt.Sprintf(" AND r.examination_id = $%d", len(args)+1)
		args = append(args, filter.ExaminationID)
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND e.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.ExamType != "" {
		query += fmt.Sprintf(" AND e.type = $%d", len(args)+1)
		args = append(args, filter.ExamType)
	}
	query += " ORDER BY e.date ASC, r.created_at ASC"
	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}

// ListByExamination returns every result for an examination.
func (r *ResultRepository) ListByExamination(ctx context.Context, examinationID string) ([]models.ResultDetail, error) {
	query := "SELECT " + resultDetailColumns + ` FROM results r
        JOIN examinations e ON e.id = r.examination_id
        WHERE r.examination_id = $1 ORDER BY r.created_at ASC`
	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, examinationID); err != nil {
		return nil, fmt.Errorf("list examination results: %w", err)
	}
	return results, nil
}

// FindByID returns one result with exam metadata.
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	query := "SELECT " + resultDetailColumns + ` FROM results r
        JOIN examinations e ON e.id = r.examination_id
        WHERE r.id = $1`
	var result models.ResultDetail
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}
