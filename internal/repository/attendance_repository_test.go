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

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Attendance{
		StudentID: "student-1",
		SubjectID: "subject-1",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		IsPresent: true,
		MarkedBy:  "teacher-1",
	}
	err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySummary(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"present", "total"}).AddRow(18, 20)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FILTER").
		WithArgs("student-1", "subject-1").
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), "student-1", "subject-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 18, summary.Present)
	assert.Equal(t, 20, summary.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySummaryEmpty(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"present", "total"}).AddRow(0, 0)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FILTER").
		WithArgs("student-1", "subject-1").
		WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), "student-1", "subject-1", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Present)
	assert.Zero(t, summary.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_id", "date", "is_present", "marked_by", "remarks", "created_at", "updated_at"}).
		AddRow("att-1", "student-1", "subject-1", time.Now(), true, "teacher-1", "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT a.id, a.student_id").
		WithArgs("student-1").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.AttendanceFilter{StudentID: "student-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.True(t, records[0].IsPresent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
