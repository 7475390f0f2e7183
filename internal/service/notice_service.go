package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type noticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	FindByID(ctx context.Context, id string) (*models.Notice, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
}

// NoticeRequest is the create/update payload for a notice.
type NoticeRequest struct {
	Title         string                `json:"title" validate:"required"`
	Content       string                `json:"content" validate:"required"`
	Priority      models.NoticePriority `json:"priority" validate:"required"`
	Audience      models.NoticeAudience `json:"audience" validate:"required"`
	TargetClassID string                `json:"target_class_id"`
	Active        bool                  `json:"active"`
}

// NoticeService manages the notice board. Visibility is audience-based:
// students see all/students plus their class notices, teachers see
// all/teachers, admins see everything.
type NoticeService struct {
	repo      noticeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoticeService constructs a NoticeService.
func NewNoticeService(repo noticeRepository, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NoticeService{repo: repo, validator: validate, logger: logger}
}

// Create publishes a notice. Class-specific notices need a target class.
func (s *NoticeService) Create(ctx context.Context, actor models.Actor, req NoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	if !req.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
	}
	if !req.Audience.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown audience")
	}
	if req.Audience == models.AudienceClassSpecific && req.TargetClassID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class-specific notices need a target class")
	}
	if req.Audience != models.AudienceClassSpecific && req.TargetClassID != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target class is only valid for class-specific notices")
	}

	notice := &models.Notice{
		Title:         req.Title,
		Content:       req.Content,
		Priority:      req.Priority,
		Audience:      req.Audience,
		TargetClassID: optional(req.TargetClassID),
		CreatedBy:     actor.UserID,
		Active:        true,
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}
	return notice, nil
}

// ListVisible returns active notices the actor is allowed to see, newest
// first.
func (s *NoticeService) ListVisible(ctx context.Context, actor models.Actor, priority models.NoticePriority) ([]models.Notice, error) {
	filter := models.NoticeFilter{ActiveOnly: true, Priority: priority}
	switch actor.Role {
	case models.RoleStudent:
		filter.Audiences = []models.NoticeAudience{models.AudienceAll, models.AudienceStudents}
		filter.ClassID = actor.ClassID()
	case models.RoleTeacher:
		filter.Audiences = []models.NoticeAudience{models.AudienceAll, models.AudienceTeachers}
	default:
		filter.ActiveOnly = false
	}
	notices, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	return notices, nil
}

// Get returns one notice when the actor's audience covers it.
func (s *NoticeService) Get(ctx context.Context, actor models.Actor, id string) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	if !s.visibleTo(actor, notice) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "notice is not addressed to you")
	}
	return notice, nil
}

// Update modifies a notice, including deactivation.
func (s *NoticeService) Update(ctx context.Context, id string, req NoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	notice.Title = req.Title
	notice.Content = req.Content
	notice.Priority = req.Priority
	notice.Audience = req.Audience
	notice.TargetClassID = optional(req.TargetClassID)
	notice.Active = req.Active
	if err := s.repo.Update(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}
	return notice, nil
}

// Delete removes a notice.
func (s *NoticeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	return nil
}

func (s *NoticeService) visibleTo(actor models.Actor, notice *models.Notice) bool {
	if actor.IsAdmin() {
		return true
	}
	if !notice.Active {
		return false
	}
	switch notice.Audience {
	case models.AudienceAll:
		return true
	case models.AudienceStudents:
		return actor.Role == models.RoleStudent
	case models.AudienceTeachers:
		return actor.Role == models.RoleTeacher
	case models.AudienceClassSpecific:
		return notice.TargetClassID != nil && *notice.TargetClassID == actor.ClassID()
	default:
		return false
	}
}
