package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	ListInbox(ctx context.Context, userID string) ([]models.Message, error)
	ListSent(ctx context.Context, userID string) ([]models.Message, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	CountUnread(ctx context.Context, userID string) (int, error)
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedbackBySubject(ctx context.Context, subjectID string) ([]models.Feedback, error)
}

// SendMessageRequest is the payload for a direct message.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

// FeedbackRequest is a student's subject feedback payload.
type FeedbackRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

// MessageService handles direct messages and subject feedback.
type MessageService struct {
	repo      messageRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{repo: repo, users: users, validator: validate, logger: logger}
}

// Send delivers a message to another user.
func (s *MessageService) Send(ctx context.Context, actor models.Actor, req SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if req.RecipientID == actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot message yourself")
	}
	if _, err := s.users.FindByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recipient")
	}

	message := &models.Message{
		SenderID:    actor.UserID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}

// Inbox returns the actor's received messages.
func (s *MessageService) Inbox(ctx context.Context, actor models.Actor) ([]models.Message, error) {
	messages, err := s.repo.ListInbox(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inbox")
	}
	return messages, nil
}

// Sent returns the actor's sent messages.
func (s *MessageService) Sent(ctx context.Context, actor models.Actor) ([]models.Message, error) {
	messages, err := s.repo.ListSent(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sent messages")
	}
	return messages, nil
}

// MarkRead marks a received message read. Only the recipient may do so.
func (s *MessageService) MarkRead(ctx context.Context, actor models.Actor, id string) error {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}
	if message.RecipientID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "message is addressed to another user")
	}
	if err := s.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	return nil
}

// UnreadCount counts unread messages for the actor.
func (s *MessageService) UnreadCount(ctx context.Context, actor models.Actor) (int, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread messages")
	}
	return count, nil
}

// SubmitFeedback records a student's rating for a subject.
func (s *MessageService) SubmitFeedback(ctx context.Context, actor models.Actor, req FeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if err := requireStudent(actor); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		StudentID: actor.StudentID(),
		SubjectID: optional(req.SubjectID),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit feedback")
	}
	return feedback, nil
}

// SubjectFeedback lists feedback for a subject. Teachers and admins only.
func (s *MessageService) SubjectFeedback(ctx context.Context, actor models.Actor, subjectID string) ([]models.Feedback, error) {
	if actor.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "feedback review is restricted to staff")
	}
	items, err := s.repo.ListFeedbackBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return items, nil
}
