package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type scheduleRepository interface {
	Create(ctx context.Context, entry *models.Schedule) error
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListByClass(ctx context.Context, classID string) ([]models.ScheduleDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleDetail, error)
	FindOverlaps(ctx context.Context, classID, teacherID string, weekday models.Weekday, startTime, endTime string) ([]models.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleRequest is the payload for a timetable slot.
type ScheduleRequest struct {
	ClassID   string         `json:"class_id" validate:"required"`
	SubjectID string         `json:"subject_id" validate:"required"`
	TeacherID string         `json:"teacher_id" validate:"required"`
	Weekday   models.Weekday `json:"weekday" validate:"required"`
	StartTime string         `json:"start_time" validate:"required"`
	EndTime   string         `json:"end_time" validate:"required"`
	Room      string         `json:"room"`
}

// ScheduleService manages timetables. A new slot is rejected when it
// overlaps an existing slot for either the class or the teacher.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// Create adds a timetable slot after checking for conflicts.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !req.Weekday.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
	}
	if err := validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	overlaps, err := s.repo.FindOverlaps(ctx, req.ClassID, req.TeacherID, req.Weekday, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	if len(overlaps) > 0 {
		conflict := overlaps[0]
		if conflict.ClassID == req.ClassID {
			return nil, appErrors.Clone(appErrors.ErrConstraintViolation, fmt.Sprintf("class already scheduled %s-%s on %s", conflict.StartTime, conflict.EndTime, conflict.Weekday))
		}
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, fmt.Sprintf("teacher already scheduled %s-%s on %s", conflict.StartTime, conflict.EndTime, conflict.Weekday))
	}

	entry := &models.Schedule{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return entry, nil
}

// ClassTimetable returns a class timetable.
func (s *ScheduleService) ClassTimetable(ctx context.Context, classID string) ([]models.ScheduleDetail, error) {
	entries, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class timetable")
	}
	return entries, nil
}

// TeacherTimetable returns a teacher timetable.
func (s *ScheduleService) TeacherTimetable(ctx context.Context, teacherID string) ([]models.ScheduleDetail, error) {
	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher timetable")
	}
	return entries, nil
}

// Delete removes a timetable slot.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// validateTimeWindow checks HH:MM formatting and ordering. Lexicographic
// comparison works because the format is fixed width.
func validateTimeWindow(start, end string) error {
	if !validClockTime(start) || !validClockTime(end) {
		return appErrors.Clone(appErrors.ErrValidation, "times must use HH:MM 24-hour format")
	}
	if start >= end {
		return appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	return nil
}

func validClockTime(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	hh := int(v[0]-'0')*10 + int(v[1]-'0')
	mm := int(v[3]-'0')*10 + int(v[4]-'0')
	return hh <= 23 && mm <= 59
}
