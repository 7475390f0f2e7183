package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type fakeScheduleRepo struct {
	entries []models.Schedule
}

func (f *fakeScheduleRepo) Create(ctx context.Context, entry *models.Schedule) error {
	if entry.ID == "" {
		entry.ID = "schedule-1"
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) ListByClass(ctx context.Context, classID string) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) FindOverlaps(ctx context.Context, classID, teacherID string, weekday models.Weekday, startTime, endTime string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, entry := range f.entries {
		if entry.Weekday != weekday {
			continue
		}
		if entry.ClassID != classID && entry.TeacherID != teacherID {
			continue
		}
		if entry.StartTime < endTime && entry.EndTime > startTime {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func validSlot() ScheduleRequest {
	return ScheduleRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Weekday:   models.WeekdayMonday,
		StartTime: "09:00",
		EndTime:   "10:00",
		Room:      "101",
	}
}

func TestScheduleCreate(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, nil, nil)

	entry, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)
	assert.Equal(t, models.WeekdayMonday, entry.Weekday)
	assert.Len(t, repo.entries, 1)
}

func TestScheduleCreateClassConflict(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)

	req := validSlot()
	req.TeacherID = "teacher-2"
	req.StartTime = "09:30"
	req.EndTime = "10:30"
	_, err = svc.Create(context.Background(), req)
	assertErrorCode(t, err, appErrors.ErrConstraintViolation.Code)
	assert.Contains(t, err.Error(), "class already scheduled")
}

func TestScheduleCreateTeacherConflict(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)

	req := validSlot()
	req.ClassID = "class-2"
	_, err = svc.Create(context.Background(), req)
	assertErrorCode(t, err, appErrors.ErrConstraintViolation.Code)
	assert.Contains(t, err.Error(), "teacher already scheduled")
}

func TestScheduleCreateAdjacentSlotsAllowed(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validSlot())
	require.NoError(t, err)

	req := validSlot()
	req.StartTime = "10:00"
	req.EndTime = "11:00"
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestScheduleCreateRejectsBadTimes(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, nil)

	for _, tc := range []struct{ start, end string }{
		{"9:00", "10:00"},
		{"09:00", "25:00"},
		{"09:60", "10:00"},
		{"10:00", "09:00"},
		{"09:00", "09:00"},
	} {
		req := validSlot()
		req.StartTime = tc.start
		req.EndTime = tc.end
		_, err := svc.Create(context.Background(), req)
		assertErrorCode(t, err, appErrors.ErrValidation.Code)
	}
}

func TestScheduleCreateRejectsBadWeekday(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, nil)

	req := validSlot()
	req.Weekday = "sunday"
	_, err := svc.Create(context.Background(), req)
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestScheduleDeleteMissing(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, nil)
	err := svc.Delete(context.Background(), "missing")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}
