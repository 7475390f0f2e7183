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

type fakeNoticeRepo struct {
	notices    map[string]models.Notice
	lastFilter models.NoticeFilter
}

func (f *fakeNoticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	if f.notices == nil {
		f.notices = make(map[string]models.Notice)
	}
	if notice.ID == "" {
		notice.ID = "notice-1"
	}
	f.notices[notice.ID] = *notice
	return nil
}

func (f *fakeNoticeRepo) FindByID(ctx context.Context, id string) (*models.Notice, error) {
	notice, ok := f.notices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &notice, nil
}

func (f *fakeNoticeRepo) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeNoticeRepo) Update(ctx context.Context, notice *models.Notice) error {
	f.notices[notice.ID] = *notice
	return nil
}

func (f *fakeNoticeRepo) Delete(ctx context.Context, id string) error {
	delete(f.notices, id)
	return nil
}

func TestNoticeCreateClassSpecificRules(t *testing.T) {
	svc := NewNoticeService(&fakeNoticeRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), adminActor(), NoticeRequest{
		Title: "Exam hall", Content: "Room change", Priority: models.PriorityHigh,
		Audience: models.AudienceClassSpecific,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), adminActor(), NoticeRequest{
		Title: "Holiday", Content: "Closed Friday", Priority: models.PriorityLow,
		Audience: models.AudienceAll, TargetClassID: "class-1",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	notice, err := svc.Create(context.Background(), adminActor(), NoticeRequest{
		Title: "Exam hall", Content: "Room change", Priority: models.PriorityHigh,
		Audience: models.AudienceClassSpecific, TargetClassID: "class-1",
	})
	require.NoError(t, err)
	assert.True(t, notice.Active)
	require.NotNil(t, notice.TargetClassID)
	assert.Equal(t, "class-1", *notice.TargetClassID)
}

func TestNoticeListVisibleScopesByRole(t *testing.T) {
	repo := &fakeNoticeRepo{}
	svc := NewNoticeService(repo, nil, nil)

	_, err := svc.ListVisible(context.Background(), studentActor("student-1"), "")
	require.NoError(t, err)
	assert.True(t, repo.lastFilter.ActiveOnly)
	assert.Equal(t, []models.NoticeAudience{models.AudienceAll, models.AudienceStudents}, repo.lastFilter.Audiences)
	assert.Equal(t, "class-1", repo.lastFilter.ClassID)

	_, err = svc.ListVisible(context.Background(), teacherActor("teacher-1"), "")
	require.NoError(t, err)
	assert.Equal(t, []models.NoticeAudience{models.AudienceAll, models.AudienceTeachers}, repo.lastFilter.Audiences)
	assert.Empty(t, repo.lastFilter.ClassID)

	_, err = svc.ListVisible(context.Background(), adminActor(), "")
	require.NoError(t, err)
	assert.False(t, repo.lastFilter.ActiveOnly)
	assert.Empty(t, repo.lastFilter.Audiences)
}

func TestNoticeGetVisibility(t *testing.T) {
	classID := "class-1"
	repo := &fakeNoticeRepo{notices: map[string]models.Notice{
		"for-teachers": {ID: "for-teachers", Audience: models.AudienceTeachers, Active: true},
		"for-class":    {ID: "for-class", Audience: models.AudienceClassSpecific, TargetClassID: &classID, Active: true},
		"inactive":     {ID: "inactive", Audience: models.AudienceAll, Active: false},
	}}
	svc := NewNoticeService(repo, nil, nil)

	_, err := svc.Get(context.Background(), studentActor("student-1"), "for-teachers")
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Get(context.Background(), studentActor("student-1"), "for-class")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), teacherActor("teacher-1"), "inactive")
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Get(context.Background(), adminActor(), "inactive")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), adminActor(), "missing")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestNoticeUpdateDeactivates(t *testing.T) {
	repo := &fakeNoticeRepo{notices: map[string]models.Notice{
		"notice-1": {ID: "notice-1", Title: "Old", Content: "Old", Priority: models.PriorityLow, Audience: models.AudienceAll, Active: true},
	}}
	svc := NewNoticeService(repo, nil, nil)

	updated, err := svc.Update(context.Background(), "notice-1", NoticeRequest{
		Title: "New", Content: "New", Priority: models.PriorityMedium,
		Audience: models.AudienceAll, Active: false,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, models.PriorityMedium, repo.notices["notice-1"].Priority)
}
