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

type examRepository interface {
	Create(ctx context.Context, exam *models.Examination) error
	FindByID(ctx context.Context, id string) (*models.Examination, error)
	List(ctx context.Context, classID, subjectID string) ([]models.Examination, error)
	Update(ctx context.Context, exam *models.Examination) error
	Delete(ctx context.Context, id string) error
}

type resultRepository interface {
	Upsert(ctx context.Context, result *models.Result) error
	ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error)
	ListByExamination(ctx context.Context, examinationID string) ([]models.ResultDetail, error)
	FindByID(ctx context.Context, id string) (*models.ResultDetail, error)
}

// ExamRequest is the create/update payload for an examination.
type ExamRequest struct {
	Name         string          `json:"name" validate:"required"`
	Type         models.ExamType `json:"type" validate:"required"`
	SubjectID    string          `json:"subject_id" validate:"required"`
	ClassID      string          `json:"class_id" validate:"required"`
	Date         time.Time       `json:"date" validate:"required"`
	TotalMarks   float64         `json:"total_marks" validate:"required,gt=0"`
	PassingMarks float64         `json:"passing_marks" validate:"gte=0"`
}

// EnterMarksRequest records a student's marks for an examination.
type EnterMarksRequest struct {
	StudentID     string  `json:"student_id" validate:"required"`
	ExaminationID string  `json:"examination_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Remarks       string  `json:"remarks"`
}

// ResultService manages examinations and marks. Entering marks twice for the
// same student and exam overwrites, and derived fields are recomputed on
// read so they can never go stale.
type ResultService struct {
	exams     examRepository
	results   resultRepository
	teachers  attendanceTeacherChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a ResultService.
func NewResultService(exams examRepository, results resultRepository, teachers attendanceTeacherChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResultService{exams: exams, results: results, teachers: teachers, cache: cache, validator: validate, logger: logger}
}

// CreateExam registers an examination.
func (s *ResultService) CreateExam(ctx context.Context, req ExamRequest) (*models.Examination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid examination payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown examination type")
	}
	if req.PassingMarks > req.TotalMarks {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passing marks cannot exceed total marks")
	}
	exam := &models.Examination{
		Name:         req.Name,
		Type:         req.Type,
		SubjectID:    req.SubjectID,
		ClassID:      req.ClassID,
		Date:         req.Date,
		TotalMarks:   req.TotalMarks,
		PassingMarks: req.PassingMarks,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create examination")
	}
	return exam, nil
}

// GetExam returns one examination.
func (s *ResultService) GetExam(ctx context.Context, id string) (*models.Examination, error) {
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "examination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load examination")
	}
	return exam, nil
}

// UpdateExam replaces an examination's details.
func (s *ResultService) UpdateExam(ctx context.Context, id string, req ExamRequest) (*models.Examination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid examination payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown examination type")
	}
	if req.PassingMarks > req.TotalMarks {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passing marks cannot exceed total marks")
	}
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "examination not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load examination")
	}
	if req.SubjectID != exam.SubjectID || req.ClassID != exam.ClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "examination subject and class cannot change")
	}
	exam.Name = req.Name
	exam.Type = req.Type
	exam.Date = req.Date
	exam.TotalMarks = req.TotalMarks
	exam.PassingMarks = req.PassingMarks
	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update examination")
	}
	return exam, nil
}

// DeleteExam removes an examination. Results entered against it go with it
// via the results table's foreign key.
func (s *ResultService) DeleteExam(ctx context.Context, id string) error {
	if _, err := s.GetExam(ctx, id); err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete examination")
	}
	return nil
}

// ListExams returns examinations for a class and/or subject.
func (s *ResultService) ListExams(ctx context.Context, classID, subjectID string) ([]models.Examination, error) {
	exams, err := s.exams.List(ctx, classID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list examinations")
	}
	return exams, nil
}

// EnterMarks records marks for a student. Re-entering overwrites the prior
// value and invalidates the student's cached performance snapshot.
func (s *ResultService) EnterMarks(ctx context.Context, actor models.Actor, req EnterMarksRequest) (*models.ResultDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload")
	}

	exam, err := s.GetExam(ctx, req.ExaminationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEntry(ctx, actor, exam.SubjectID); err != nil {
		return nil, err
	}
	if req.MarksObtained > exam.TotalMarks {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "marks cannot exceed total marks")
	}

	var remarks *string
	if req.Remarks != "" {
		remarks = &req.Remarks
	}
	result := &models.Result{
		StudentID:     req.StudentID,
		ExaminationID: req.ExaminationID,
		MarksObtained: req.MarksObtained,
		Remarks:       remarks,
		EnteredBy:     actor.UserID,
	}
	if err := s.results.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record marks")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "performance:"+req.StudentID+"*"); err != nil {
			s.logger.Warn("failed to invalidate performance cache", zap.String("student_id", req.StudentID), zap.Error(err))
		}
	}

	detail := &models.ResultDetail{
		Result:       *result,
		ExamName:     exam.Name,
		ExamType:     exam.Type,
		ExamDate:     exam.Date,
		SubjectID:    exam.SubjectID,
		TotalMarks:   exam.TotalMarks,
		PassingMarks: exam.PassingMarks,
	}
	s.decorate(detail)
	return detail, nil
}

// StudentResults returns a student's results in chronological exam order
// with derived percentage and grade.
func (s *ResultService) StudentResults(ctx context.Context, actor models.Actor, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error) {
	if actor.Role == models.RoleStudent {
		if err := requireSelfStudent(actor, studentID); err != nil {
			return nil, err
		}
	}
	results, err := s.results.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	for i := range results {
		s.decorate(&results[i])
	}
	return results, nil
}

// ExamResults returns every result for an examination.
func (s *ResultService) ExamResults(ctx context.Context, actor models.Actor, examinationID string) ([]models.ResultDetail, error) {
	exam, err := s.GetExam(ctx, examinationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEntry(ctx, actor, exam.SubjectID); err != nil {
		return nil, err
	}
	results, err := s.results.ListByExamination(ctx, examinationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list examination results")
	}
	for i := range results {
		s.decorate(&results[i])
	}
	return results, nil
}

// decorate fills the derived percentage, grade and pass flag. A zero passing
// threshold disables the flag.
func (s *ResultService) decorate(detail *models.ResultDetail) {
	if detail.TotalMarks <= 0 {
		return
	}
	percentage, err := Percentage(detail.MarksObtained, detail.TotalMarks)
	if err != nil {
		s.logger.Warn("stored marks out of range", zap.String("result_id", detail.ID), zap.Error(err))
		return
	}
	detail.Percentage = percentage
	detail.Grade = GradeFor(percentage)
	if detail.PassingMarks > 0 {
		detail.Passed = detail.MarksObtained >= detail.PassingMarks
	}
}

func (s *ResultService) authorizeEntry(ctx context.Context, actor models.Actor, subjectID string) error {
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
