package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// NoticeRepository handles notice persistence.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository creates a new notice repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

const noticeColumns = `id, title, content, priority, audience, target_class_id, created_by, active, created_at, updated_at`

// Create inserts a notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	notice.CreatedAt = now
	notice.UpdatedAt = now
	const query = `INSERT INTO notices (id, title, content, priority, audience, target_class_id, created_by, active, created_at, updated_at)
        VALUES (:id, :title, :content, :priority, :audience, :target_class_id, :created_by, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// FindByID returns one notice.
func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*models.Notice, error) {
	var notice models.Notice
	query := fmt.Sprintf("SELECT %s FROM notices WHERE id = $1", noticeColumns)
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		return nil, err
	}
	return &notice, nil
}

// List returns notices matching the filter, newest first. Audience filtering
// belongs to the service layer; here the filter is mechanical.
func (r *NoticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	query := fmt.Sprintf("SELECT %s FROM notices WHERE 1=1", noticeColumns)
	var args []interface{}
	if filter.ActiveOnly {
		query += " AND active = TRUE"
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", len(args)+1)
		args = append(args, filter.Priority)
	}
	if len(filter.Audiences) > 0 {
		in := ""
		for i, audience := range filter.Audiences {
			if i > 0 {
				in += ", "
			}
			in += fmt.Sprintf("$%d", len(args)+1)
			args = append(args, audience)
		}
		clause := fmt.Sprintf(" AND (audience IN (%s)", in)
		if filter.ClassID != "" {
			clause += fmt.Sprintf(" OR (audience = $%d AND target_class_id = $%d)", len(args)+1, len(args)+2)
			args = append(args, models.AudienceClassSpecific, filter.ClassID)
		}
		query += clause + ")"
	}
	query += " ORDER BY created_at DESC"
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

// Update replaces the mutable notice fields.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notices SET title = :title, content = :content, priority = :priority,
        audience = :audience, target_class_id = :target_class_id, active = :active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM notices WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}
