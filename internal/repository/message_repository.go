package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// MessageRepository handles direct messages and subject feedback.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_id, recipient_id, body, read, read_at, created_at`

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO messages (id, sender_id, recipient_id, body, read, created_at)
        VALUES (:id, :sender_id, :recipient_id, :body, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// FindByID returns one message.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	query := fmt.Sprintf("SELECT %s FROM messages WHERE id = $1", messageColumns)
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListInbox returns messages received by a user, newest first.
func (r *MessageRepository) ListInbox(ctx context.Context, userID string) ([]models.Message, error) {
	query := fmt.Sprintf("SELECT %s FROM messages WHERE recipient_id = $1 ORDER BY created_at DESC", messageColumns)
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return messages, nil
}

// ListSent returns messages sent by a user, newest first.
func (r *MessageRepository) ListSent(ctx context.Context, userID string) ([]models.Message, error) {
	query := fmt.Sprintf("SELECT %s FROM messages WHERE sender_id = $1 ORDER BY created_at DESC", messageColumns)
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list sent: %w", err)
	}
	return messages, nil
}

// MarkRead sets the read flag. Marking an already-read message is a no-op.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE messages SET read = TRUE, read_at = $1 WHERE id = $2 AND read = FALSE", readAt, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// CountUnread counts unread messages in a user's inbox.
func (r *MessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read = FALSE", userID); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return total, nil
}

// CreateFeedback inserts subject feedback from a student.
func (r *MessageRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	feedback.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO feedback (id, student_id, subject_id, rating, comment, created_at)
        VALUES (:id, :student_id, :subject_id, :rating, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListFeedbackBySubject returns feedback for a subject, newest first.
func (r *MessageRepository) ListFeedbackBySubject(ctx context.Context, subjectID string) ([]models.Feedback, error) {
	const query = `SELECT id, student_id, subject_id, rating, comment, created_at
        FROM feedback WHERE subject_id = $1 ORDER BY created_at DESC`
	var items []models.Feedback
	if err := r.db.SelectContext(ctx, &items, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject feedback: %w", err)
	}
	return items, nil
}
