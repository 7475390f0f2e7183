package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/repository"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type submissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	UpdateGrade(ctx context.Context, id string, marks float64, feedback, gradedBy string, gradedAt time.Time) error
}

// AssignmentRequest is the create/update payload for an assignment.
type AssignmentRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	SubjectID   string    `json:"subject_id" validate:"required"`
	ClassID     string    `json:"class_id" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	TotalMarks  float64   `json:"total_marks" validate:"required,gt=0"`
	Attachment  string    `json:"attachment"`
}

// SubmitRequest is a student's answer payload.
type SubmitRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Text         string `json:"text"`
	File         string `json:"file"`
}

// GradeRequest is the payload for grading a submission.
type GradeRequest struct {
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Feedback      string  `json:"feedback"`
}

// SubmissionService manages assignments and their submissions. A student
// submits at most once per assignment; lateness is fixed at submission time.
type SubmissionService struct {
	assignments assignmentRepository
	submissions submissionRepository
	teachers    attendanceTeacherChecker
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(assignments assignmentRepository, submissions submissionRepository, teachers attendanceTeacherChecker, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{
		assignments: assignments,
		submissions: submissions,
		teachers:    teachers,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateAssignment publishes coursework for a class.
func (s *SubmissionService) CreateAssignment(ctx context.Context, actor models.Actor, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	teaches, err := s.teachers.TeachesSubject(ctx, actor.TeacherID(), req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify subject assignment")
	}
	if !teaches {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher is not assigned to this subject")
	}

	assignment := &models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		ClassID:     req.ClassID,
		TeacherID:   actor.TeacherID(),
		DueDate:     req.DueDate,
		TotalMarks:  req.TotalMarks,
		Attachment:  optional(req.Attachment),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// GetAssignment returns one assignment.
func (s *SubmissionService) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// ListAssignments returns assignments scoped by the actor: students see
// their class, teachers their own assignments, admins anything requested.
func (s *SubmissionService) ListAssignments(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) ([]models.Assignment, error) {
	switch actor.Role {
	case models.RoleStudent:
		filter.ClassID = actor.ClassID()
	case models.RoleTeacher:
		if filter.TeacherID == "" {
			filter.TeacherID = actor.TeacherID()
		}
	}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Submit records a student's answer. Lateness is decided once, against the
// due date at submission time. A second attempt is rejected outright.
func (s *SubmissionService) Submit(ctx context.Context, actor models.Actor, req SubmitRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	if req.Text == "" && req.File == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission needs text or a file")
	}

	assignment, err := s.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ClassID != actor.ClassID() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another class")
	}

	submittedAt := s.now()
	submission := &models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    actor.StudentID(),
		Text:         optional(req.Text),
		File:         optional(req.File),
		SubmittedAt:  submittedAt,
		IsLate:       submittedAt.After(assignment.DueDate),
		Status:       models.SubmissionSubmitted,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "assignment already submitted")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}
	return submission, nil
}

// StudentSubmissionForAssignment returns the actor's submission for one
// assignment, or not-found if they have not submitted yet.
func (s *SubmissionService) StudentSubmissionForAssignment(ctx context.Context, actor models.Actor, assignmentID string) (*models.Submission, error) {
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	submission, err := s.submissions.FindByAssignmentAndStudent(ctx, assignmentID, actor.StudentID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no submission for this assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// Grade marks a submission. Regrading overwrites marks and feedback but
// never touches the submission itself.
func (s *SubmissionService) Grade(ctx context.Context, actor models.Actor, submissionID string, req GradeRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	assignment, err := s.GetAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if err := requireTeacher(actor); err != nil {
			return nil, err
		}
		if assignment.TeacherID != actor.TeacherID() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
		}
	}
	if req.MarksObtained > assignment.TotalMarks {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "marks cannot exceed assignment total")
	}

	gradedAt := s.now()
	if err := s.submissions.UpdateGrade(ctx, submissionID, req.MarksObtained, req.Feedback, actor.UserID, gradedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}

	submission.MarksObtained = &req.MarksObtained
	submission.Feedback = optional(req.Feedback)
	submission.GradedBy = &actor.UserID
	submission.GradedAt = &gradedAt
	submission.Status = models.SubmissionGraded
	return submission, nil
}

// AssignmentSubmissions lists every submission for a teacher's assignment.
func (s *SubmissionService) AssignmentSubmissions(ctx context.Context, actor models.Actor, assignmentID string) ([]models.Submission, error) {
	assignment, err := s.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if err := requireTeacher(actor); err != nil {
			return nil, err
		}
		if assignment.TeacherID != actor.TeacherID() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
		}
	}
	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// StudentSubmissions lists the actor's own submissions.
func (s *SubmissionService) StudentSubmissions(ctx context.Context, actor models.Actor) ([]models.Submission, error) {
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	submissions, err := s.submissions.ListByStudent(ctx, actor.StudentID())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}
