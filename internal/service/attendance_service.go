package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
	Summary(ctx context.Context, studentID, subjectID string, from, to *time.Time) (*models.AttendanceSummary, error)
}

type attendanceTeacherChecker interface {
	TeachesSubject(ctx context.Context, teacherID, subjectID string) (bool, error)
}

// MarkAttendanceRequest records presence for one student on one date.
type MarkAttendanceRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	IsPresent bool      `json:"is_present"`
	Remarks   string    `json:"remarks"`
}

// BulkAttendanceEntry is one student's presence within a bulk call.
type BulkAttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	IsPresent bool   `json:"is_present"`
	Remarks   string `json:"remarks"`
}

// BulkAttendanceRequest marks a whole class session in one call.
type BulkAttendanceRequest struct {
	SubjectID string                `json:"subject_id" validate:"required"`
	Date      time.Time             `json:"date" validate:"required"`
	Entries   []BulkAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceService manages attendance records. Marking is last-write-wins
// per (student, subject, date).
type AttendanceService struct {
	repo      attendanceRepository
	teachers  attendanceTeacherChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, teachers attendanceTeacherChecker, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// Mark records or overwrites one attendance entry. Only a teacher assigned
// to the subject (or an admin) may mark.
func (s *AttendanceService) Mark(ctx context.Context, actor models.Actor, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if err := s.authorizeMarker(ctx, actor, req.SubjectID); err != nil {
		return nil, err
	}

	record := &models.Attendance{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      req.Date.UTC().Truncate(24 * time.Hour),
		IsPresent: req.IsPresent,
		MarkedBy:  actor.UserID,
		Remarks:   optional(req.Remarks),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return record, nil
}

// MarkBulk records a whole session. Entries are applied independently; the
// same last-write-wins rule holds per student.
func (s *AttendanceService) MarkBulk(ctx context.Context, actor models.Actor, req BulkAttendanceRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk attendance payload")
	}
	if err := s.authorizeMarker(ctx, actor, req.SubjectID); err != nil {
		return 0, err
	}

	date := req.Date.UTC().Truncate(24 * time.Hour)
	marked := 0
	for _, entry := range req.Entries {
		record := &models.Attendance{
			StudentID: entry.StudentID,
			SubjectID: req.SubjectID,
			Date:      date,
			IsPresent: entry.IsPresent,
			MarkedBy:  actor.UserID,
			Remarks:   optional(entry.Remarks),
		}
		if err := s.repo.Upsert(ctx, record); err != nil {
			return marked, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
		}
		marked++
	}
	return marked, nil
}

// List returns attendance records. Students are restricted to their own
// records regardless of the requested filter.
func (s *AttendanceService) List(ctx context.Context, actor models.Actor, filter models.AttendanceFilter) ([]models.Attendance, error) {
	if actor.Role == models.RoleStudent {
		if filter.StudentID != "" && filter.StudentID != actor.StudentID() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not permitted to access this student's records")
		}
		filter.StudentID = actor.StudentID()
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// Percentage computes a student's attendance rate for a subject. An empty
// record set yields zero, not an error.
func (s *AttendanceService) Percentage(ctx context.Context, actor models.Actor, studentID, subjectID string, from, to *time.Time) (*models.AttendancePercentage, error) {
	if actor.Role == models.RoleStudent {
		if err := requireSelfStudent(actor, studentID); err != nil {
			return nil, err
		}
	}
	summary, err := s.repo.Summary(ctx, studentID, subjectID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}

	percentage := 0.0
	if summary.Total > 0 {
		percentage = round2(float64(summary.Present) / float64(summary.Total) * 100)
	}
	return &models.AttendancePercentage{
		StudentID:  studentID,
		SubjectID:  subjectID,
		Present:    summary.Present,
		Total:      summary.Total,
		Percentage: percentage,
	}, nil
}

func (s *AttendanceService) authorizeMarker(ctx context.Context, actor models.Actor, subjectID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if err := requireTeacher(actor); err != nil {
		return err
	}
	teaches, err := s.teachers.TeachesSubject(ctx, actor.TeacherID(), subjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify subject assignment")
	}
	if !teaches {
		return appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned to this subject")
	}
	return nil
}
