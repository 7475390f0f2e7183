package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryFindOverlaps(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "subject_id", "teacher_id", "weekday", "start_time", "end_time", "room", "created_at"}).
		AddRow("sch-1", "class-1", "subject-1", "teacher-1", "monday", "09:00", "10:00", "101", time.Now())
	mock.ExpectQuery("SELECT id, class_id, subject_id, teacher_id, weekday").
		WithArgs(models.WeekdayMonday, "class-1", "teacher-2", "10:30", "09:30").
		WillReturnRows(rows)

	entries, err := repo.FindOverlaps(context.Background(), "class-1", "teacher-2", models.WeekdayMonday, "09:30", "10:30")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sch-1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindOverlapsNone(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "subject_id", "teacher_id", "weekday", "start_time", "end_time", "room", "created_at"})
	mock.ExpectQuery("SELECT id, class_id, subject_id, teacher_id, weekday").
		WithArgs(models.WeekdayMonday, "class-1", "teacher-1", "11:00", "10:00").
		WillReturnRows(rows)

	entries, err := repo.FindOverlaps(context.Background(), "class-1", "teacher-1", models.WeekdayMonday, "10:00", "11:00")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.Schedule{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Weekday:   models.WeekdayMonday,
		StartTime: "09:00",
		EndTime:   "10:00",
		Room:      "101",
	}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
