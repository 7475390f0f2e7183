package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// ExamRepository handles examination persistence.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

const examColumns = `id, name, type, subject_id, class_id, date, total_marks, passing_marks, created_at`

// Create inserts an examination.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Examination) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	exam.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO examinations (id, name, type, subject_id, class_id, date, total_marks, passing_marks, created_at)
        VALUES (:id, :name, :type, :subject_id, :class_id, :date, :total_marks, :passing_marks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create examination: %w", err)
	}
	return nil
}

// FindByID returns one examination.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Examination, error) {
	var exam models.Examination
	query := fmt.Sprintf("SELECT %s FROM examinations WHERE id = $1", examColumns)
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// List returns examinations filtered by class and/or subject, newest first.
func (r *ExamRepository) List(ctx context.Context, classID, subjectID string) ([]models.Examination, error) {
	query := fmt.Sprintf("SELECT %s FROM examinations WHERE 1=1", examColumns)
	var args []interface{}
	if classID != "" {
		query += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, classID)
	}
	if subjectID != "" {
		query += fmt.Sprintf(" AND subject_id = $%d", len(args)+1)
		args = append(args, subjectID)
	}
	query += " ORDER BY date DESC"
	var exams []models.Examination
	if err := r.db.SelectContext(ctx, &exams, query, args...); err != nil {
		return nil, fmt.Errorf("list examinations: %w", err)
	}
	return exams, nil
}

// Update replaces the mutable examination fields.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Examination) error {
	const query = `UPDATE examinations SET name = :name, type = :type, date = :date,
        total_marks = :total_marks, passing_marks = :passing_marks WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update examination: %w", err)
	}
	return nil
}

// Delete removes an examination.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM examinations WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete examination: %w", err)
	}
	return nil
}
