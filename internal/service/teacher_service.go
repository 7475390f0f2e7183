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

type teacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	FindByID(ctx context.Context, id string) (*models.TeacherDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	AssignSubject(ctx context.Context, teacherID, subjectID string) error
	UnassignSubject(ctx context.Context, teacherID, subjectID string) error
	TeachesSubject(ctx context.Context, teacherID, subjectID string) (bool, error)
}

// TeacherRequest is the payload for registering a teacher profile against an
// existing account.
type TeacherRequest struct {
	UserID          string    `json:"user_id" validate:"required"`
	EmployeeID      string    `json:"employee_id" validate:"required"`
	DepartmentID    string    `json:"department_id" validate:"required"`
	Qualification   string    `json:"qualification"`
	ExperienceYears int       `json:"experience_years" validate:"gte=0"`
	JoiningDate     time.Time `json:"joining_date"`
}

// TeacherService manages teacher profiles and subject assignments.
type TeacherService struct {
	repo      teacherRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{repo: repo, users: users, validator: validate, logger: logger}
}

// Create registers a teacher profile. The linked account must carry the
// teacher role.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "linked user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "linked account is not a teacher account")
	}

	teacher := &models.Teacher{
		UserID:          req.UserID,
		EmployeeID:      req.EmployeeID,
		DepartmentID:    req.DepartmentID,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		JoiningDate:     req.JoiningDate,
		Active:          true,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Get returns one teacher with account details.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherDetail, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// List returns teachers matching the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error) {
	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Update modifies a teacher profile.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher := &detail.Teacher
	teacher.DepartmentID = req.DepartmentID
	teacher.Qualification = req.Qualification
	teacher.ExperienceYears = req.ExperienceYears
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// AssignSubject links a teacher to a subject they teach.
func (s *TeacherService) AssignSubject(ctx context.Context, teacherID, subjectID string) error {
	if _, err := s.Get(ctx, teacherID); err != nil {
		return err
	}
	if err := s.repo.AssignSubject(ctx, teacherID, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign subject")
	}
	return nil
}

// UnassignSubject removes a teacher-subject link.
func (s *TeacherService) UnassignSubject(ctx context.Context, teacherID, subjectID string) error {
	if err := s.repo.UnassignSubject(ctx, teacherID, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign subject")
	}
	return nil
}

// TeachesSubject reports whether the teacher is assigned to the subject.
func (s *TeacherService) TeachesSubject(ctx context.Context, teacherID, subjectID string) (bool, error) {
	ok, err := s.repo.TeachesSubject(ctx, teacherID, subjectID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject assignment")
	}
	return ok, nil
}
