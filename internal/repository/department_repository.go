package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// DepartmentRepository handles department persistence.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	dept.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO departments (id, name, code, description, head_user_id, created_at)
        VALUES (:id, :name, :code, :description, :head_user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// FindByID returns one department.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	var dept models.Department
	const query = `SELECT id, name, code, description, head_user_id, created_at FROM departments WHERE id = $1`
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

// List returns all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	const query = `SELECT id, name, code, description, head_user_id, created_at FROM departments ORDER BY name`
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

// Update replaces the mutable department fields.
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	const query = `UPDATE departments SET name = :name, code = :code, description = :description, head_user_id = :head_user_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

// Count returns the number of departments.
func (r *DepartmentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM departments"); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return total, nil
}
