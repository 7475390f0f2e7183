package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// TeacherRepository handles teacher profile persistence, including the
// teacher-subject assignment table.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `t.id, t.user_id, t.employee_id, t.department_id, t.qualification, t.experience_years, t.joining_date, t.active, t.created_at, t.updated_at`

// Create inserts a teacher profile. employee_id is unique.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (id, user_id, employee_id, department_id, qualification, experience_years, joining_date, active, created_at, updated_at)
        VALUES (:id, :user_id, :employee_id, :department_id, :qualification, :experience_years, :joining_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// FindByID returns one teacher with the joined account fields.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	var teacher models.TeacherDetail
	query := fmt.Sprintf(`SELECT %s, u.email, u.full_name FROM teachers t
        JOIN users u ON u.id = t.user_id WHERE t.id = $1`, teacherColumns)
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByUserID returns the teacher profile attached to a user account.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	var teacher models.Teacher
	const query = `SELECT id, user_id, employee_id, department_id, qualification, experience_years, joining_date, active, created_at, updated_at
        FROM teachers WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// List returns teachers matching the filter.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error) {
	query := fmt.Sprintf(`SELECT %s, u.email, u.full_name FROM teachers t
        JOIN users u ON u.id = t.user_id WHERE 1=1`, teacherColumns)
	var args []interface{}
	if filter.DepartmentID != "" {
		query += fmt.Sprintf(" AND t.department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.Active != nil {
		query += fmt.Sprintf(" AND t.active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}
	query += " ORDER BY u.full_name"
	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Update replaces the mutable teacher fields.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET department_id = :department_id, qualification = :qualification,
        experience_years = :experience_years, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// AssignSubject links a teacher to a subject. Re-assigning is a no-op.
func (r *TeacherRepository) AssignSubject(ctx context.Context, teacherID, subjectID string) error {
	const query = `INSERT INTO teacher_subjects (teacher_id, subject_id, assigned_at)
        VALUES ($1, $2, $3) ON CONFLICT (teacher_id, subject_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, teacherID, subjectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign subject: %w", err)
	}
	return nil
}

// UnassignSubject removes a teacher-subject link.
func (r *TeacherRepository) UnassignSubject(ctx context.Context, teacherID, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM teacher_subjects WHERE teacher_id = $1 AND subject_id = $2", teacherID, subjectID); err != nil {
		return fmt.Errorf("unassign subject: %w", err)
	}
	return nil
}

// TeachesSubject reports whether a teacher is assigned to a subject.
func (r *TeacherRepository) TeachesSubject(ctx context.Context, teacherID, subjectID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teacher_subjects WHERE teacher_id = $1 AND subject_id = $2", teacherID, subjectID); err != nil {
		return false, fmt.Errorf("check teacher subject: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of active teachers.
func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM teachers WHERE active = TRUE"); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return total, nil
}
