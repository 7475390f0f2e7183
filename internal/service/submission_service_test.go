package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/repository"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type fakeAssignmentRepo struct {
	assignments map[string]models.Assignment
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if f.assignments == nil {
		f.assignments = make(map[string]models.Assignment)
	}
	if assignment.ID == "" {
		assignment.ID = "assignment-1"
	}
	f.assignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &assignment, nil
}

func (f *fakeAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, assignment := range f.assignments {
		if filter.ClassID != "" && assignment.ClassID != filter.ClassID {
			continue
		}
		if filter.TeacherID != "" && assignment.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, assignment)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	f.assignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	delete(f.assignments, id)
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[string]models.Submission
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if f.submissions == nil {
		f.submissions = make(map[string]models.Submission)
	}
	key := submission.AssignmentID + "|" + submission.StudentID
	if _, exists := f.submissions[key]; exists {
		return repository.ErrDuplicateKey
	}
	if submission.ID == "" {
		submission.ID = "submission-" + key
	}
	f.submissions[key] = *submission
	return nil
}

func (f *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.ID == id {
			return &submission, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubmissionRepo) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	submission, ok := f.submissions[assignmentID+"|"+studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &submission, nil
}

func (f *fakeSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range f.submissions {
		if submission.StudentID == studentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) UpdateGrade(ctx context.Context, id string, marks float64, feedback, gradedBy string, gradedAt time.Time) error {
	for key, submission := range f.submissions {
		if submission.ID != id {
			continue
		}
		submission.MarksObtained = &marks
		submission.Feedback = &feedback
		submission.GradedBy = &gradedBy
		submission.GradedAt = &gradedAt
		submission.Status = models.SubmissionGraded
		f.submissions[key] = submission
		return nil
	}
	return sql.ErrNoRows
}

var testDueDate = time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)

func newSubmissionFixture(t *testing.T) (*SubmissionService, *fakeAssignmentRepo, *fakeSubmissionRepo) {
	t.Helper()
	assignments := &fakeAssignmentRepo{assignments: map[string]models.Assignment{
		"assignment-1": {
			ID:         "assignment-1",
			Title:      "Essay",
			SubjectID:  "subject-1",
			ClassID:    "class-1",
			TeacherID:  "teacher-1",
			DueDate:    testDueDate,
			TotalMarks: 20,
		},
	}}
	submissions := &fakeSubmissionRepo{}
	checker := &fakeTeacherChecker{assigned: map[string]bool{"teacher-1|subject-1": true}}
	svc := NewSubmissionService(assignments, submissions, checker, nil, nil)
	return svc, assignments, submissions
}

func TestCreateAssignmentRequiresSubjectAssignment(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	req := AssignmentRequest{
		Title: "Worksheet", SubjectID: "subject-2", ClassID: "class-1",
		DueDate: testDueDate, TotalMarks: 10,
	}
	_, err := svc.CreateAssignment(context.Background(), teacherActor("teacher-1"), req)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	req.SubjectID = "subject-1"
	assignment, err := svc.CreateAssignment(context.Background(), teacherActor("teacher-1"), req)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", assignment.TeacherID)
}

func TestSubmitFreezesLateness(t *testing.T) {
	svc, _, repo := newSubmissionFixture(t)
	svc.now = func() time.Time { return testDueDate.Add(time.Hour) }

	submission, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)
	assert.True(t, submission.IsLate)
	assert.Equal(t, models.SubmissionSubmitted, submission.Status)

	stored := repo.submissions["assignment-1|student-1"]
	assert.True(t, stored.IsLate)
	assert.Equal(t, testDueDate.Add(time.Hour), stored.SubmittedAt)
}

func TestSubmitOnTime(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)
	svc.now = func() time.Time { return testDueDate.Add(-time.Hour) }

	submission, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)
	assert.False(t, submission.IsLate)
}

func TestSubmitDuplicateRejected(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	_, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "first",
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "second",
	})
	assertErrorCode(t, err, appErrors.ErrDuplicateSubmission.Code)
}

func TestStudentSubmissionForAssignment(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	_, err := svc.StudentSubmissionForAssignment(context.Background(), studentActor("student-1"), "assignment-1")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)

	_, err = svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)

	submission, err := svc.StudentSubmissionForAssignment(context.Background(), studentActor("student-1"), "assignment-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", submission.StudentID)

	// Another student sees their own (absent) submission, not a classmate's.
	_, err = svc.StudentSubmissionForAssignment(context.Background(), studentActor("student-2"), "assignment-1")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestSubmitRequiresContent(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	_, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestSubmitWrongClassForbidden(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	actor := models.Actor{
		UserID: "student-user", Role: models.RoleStudent,
		Student: &models.StudentProfile{ID: "student-9", ClassID: "class-2"},
	}
	_, err := svc.Submit(context.Background(), actor, SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestGradeOverwritesMarksOnly(t *testing.T) {
	svc, _, repo := newSubmissionFixture(t)
	submittedAt := testDueDate.Add(time.Hour)
	svc.now = func() time.Time { return submittedAt }

	submission, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)

	graded, err := svc.Grade(context.Background(), teacherActor("teacher-1"), submission.ID, GradeRequest{
		MarksObtained: 15, Feedback: "solid",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionGraded, graded.Status)
	require.NotNil(t, graded.MarksObtained)
	assert.Equal(t, 15.0, *graded.MarksObtained)

	stored := repo.submissions["assignment-1|student-1"]
	assert.True(t, stored.IsLate)
	assert.Equal(t, submittedAt, stored.SubmittedAt)
}

func TestGradeRejectsAboveTotal(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	submission, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), teacherActor("teacher-1"), submission.ID, GradeRequest{MarksObtained: 21})
	assertErrorCode(t, err, appErrors.ErrInvalidInput.Code)
}

func TestGradeOtherTeachersAssignmentForbidden(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	submission, err := svc.Submit(context.Background(), studentActor("student-1"), SubmitRequest{
		AssignmentID: "assignment-1", Text: "done",
	})
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), teacherActor("teacher-2"), submission.ID, GradeRequest{MarksObtained: 10})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestListAssignmentsScopesByRole(t *testing.T) {
	svc, assignments, _ := newSubmissionFixture(t)
	assignments.assignments["assignment-2"] = models.Assignment{
		ID: "assignment-2", Title: "Other", SubjectID: "subject-2",
		ClassID: "class-2", TeacherID: "teacher-2", DueDate: testDueDate, TotalMarks: 10,
	}

	own, err := svc.ListAssignments(context.Background(), studentActor("student-1"), models.AssignmentFilter{ClassID: "class-2"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "class-1", own[0].ClassID)

	teacherOwn, err := svc.ListAssignments(context.Background(), teacherActor("teacher-2"), models.AssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, teacherOwn, 1)
	assert.Equal(t, "teacher-2", teacherOwn[0].TeacherID)
}
