package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, appErrors.FromError(err).Code)
}

type fakeAttendanceRepo struct {
	records    map[string]models.Attendance
	summary    models.AttendanceSummary
	lastFilter models.AttendanceFilter
}

func attendanceKey(record *models.Attendance) string {
	return record.StudentID + "|" + record.SubjectID + "|" + record.Date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, record *models.Attendance) error {
	if f.records == nil {
		f.records = make(map[string]models.Attendance)
	}
	f.records[attendanceKey(record)] = *record
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	f.lastFilter = filter
	var out []models.Attendance
	for _, record := range f.records {
		if filter.StudentID != "" && record.StudentID != filter.StudentID {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Summary(ctx context.Context, studentID, subjectID string, from, to *time.Time) (*models.AttendanceSummary, error) {
	summary := f.summary
	return &summary, nil
}

type fakeTeacherChecker struct {
	assigned map[string]bool
}

func (f *fakeTeacherChecker) TeachesSubject(ctx context.Context, teacherID, subjectID string) (bool, error) {
	return f.assigned[teacherID+"|"+subjectID], nil
}

func newAttendanceService(repo *fakeAttendanceRepo, checker *fakeTeacherChecker) *AttendanceService {
	return NewAttendanceService(repo, checker, nil, nil)
}

func TestMarkOverwritesSameKey(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	checker := &fakeTeacherChecker{assigned: map[string]bool{"teacher-1|subject-1": true}}
	svc := newAttendanceService(repo, checker)
	actor := teacherActor("teacher-1")
	date := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	first, err := svc.Mark(context.Background(), actor, MarkAttendanceRequest{
		StudentID: "student-1", SubjectID: "subject-1", Date: date, IsPresent: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsPresent)

	second, err := svc.Mark(context.Background(), actor, MarkAttendanceRequest{
		StudentID: "student-1", SubjectID: "subject-1", Date: date, IsPresent: false, Remarks: "left early",
	})
	require.NoError(t, err)
	assert.False(t, second.IsPresent)

	require.Len(t, repo.records, 1)
	for _, record := range repo.records {
		assert.False(t, record.IsPresent)
		require.NotNil(t, record.Remarks)
		assert.Equal(t, "left early", *record.Remarks)
	}
}

func TestMarkUnassignedTeacherForbidden(t *testing.T) {
	svc := newAttendanceService(&fakeAttendanceRepo{}, &fakeTeacherChecker{})
	_, err := svc.Mark(context.Background(), teacherActor("teacher-1"), MarkAttendanceRequest{
		StudentID: "student-1", SubjectID: "subject-1", Date: time.Now(), IsPresent: true,
	})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestMarkStudentForbidden(t *testing.T) {
	svc := newAttendanceService(&fakeAttendanceRepo{}, &fakeTeacherChecker{})
	_, err := svc.Mark(context.Background(), studentActor("student-1"), MarkAttendanceRequest{
		StudentID: "student-1", SubjectID: "subject-1", Date: time.Now(), IsPresent: true,
	})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestMarkBulk(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := newAttendanceService(repo, &fakeTeacherChecker{})
	req := BulkAttendanceRequest{
		SubjectID: "subject-1",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Entries: []BulkAttendanceEntry{
			{StudentID: "student-1", IsPresent: true},
			{StudentID: "student-2", IsPresent: false},
		},
	}

	marked, err := svc.MarkBulk(context.Background(), adminActor(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)
	assert.Len(t, repo.records, 2)
}

func TestListScopesStudentsToOwnRecords(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := newAttendanceService(repo, &fakeTeacherChecker{})

	_, err := svc.List(context.Background(), studentActor("student-1"), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "student-1", repo.lastFilter.StudentID)

	_, err = svc.List(context.Background(), studentActor("student-1"), models.AttendanceFilter{StudentID: "student-2"})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestPercentageRounding(t *testing.T) {
	repo := &fakeAttendanceRepo{summary: models.AttendanceSummary{Present: 2, Total: 3}}
	svc := newAttendanceService(repo, &fakeTeacherChecker{})

	pct, err := svc.Percentage(context.Background(), adminActor(), "student-1", "subject-1", nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, pct.Percentage, 0.001)
	assert.Equal(t, 2, pct.Present)
	assert.Equal(t, 3, pct.Total)
}

func TestPercentageEmptySetIsZero(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := newAttendanceService(repo, &fakeTeacherChecker{})

	pct, err := svc.Percentage(context.Background(), adminActor(), "student-1", "", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, pct.Percentage)
	assert.Zero(t, pct.Total)
}

func TestPercentageStudentSelfOnly(t *testing.T) {
	repo := &fakeAttendanceRepo{summary: models.AttendanceSummary{Present: 1, Total: 1}}
	svc := newAttendanceService(repo, &fakeTeacherChecker{})

	_, err := svc.Percentage(context.Background(), studentActor("student-1"), "student-2", "", nil, nil)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Percentage(context.Background(), studentActor("student-1"), "student-1", "", nil, nil)
	assert.NoError(t, err)
}
