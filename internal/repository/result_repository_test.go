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

func newResultMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var resultDetailTestColumns = []string{
	"id", "student_id", "examination_id", "marks_obtained", "remarks", "entered_by",
	"created_at", "updated_at", "exam_name", "exam_type", "exam_date", "subject_id",
	"total_marks", "passing_marks",
}

func TestResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.Result{
		StudentID:     "student-1",
		ExaminationID: "exam-1",
		MarksObtained: 78.5,
		EnteredBy:     "teacher-1",
	}
	err := repo.Upsert(context.Background(), result)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	examDate := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(resultDetailTestColumns).
		AddRow("res-1", "student-1", "exam-1", 60.0, "", "teacher-1", time.Now(), time.Now(), "Internal 1", "internal", examDate, "subject-1", 100.0, 35.0).
		AddRow("res-2", "student-1", "exam-2", 65.0, "", "teacher-1", time.Now(), time.Now(), "Internal 2", "internal", examDate.AddDate(0, 1, 0), "subject-1", 100.0, 35.0)
	mock.ExpectQuery("SELECT r.id, r.student_id").
		WithArgs("student-1", "subject-1").
		WillReturnRows(rows)

	results, err := repo.ListByStudent(context.Background(), "student-1", models.ResultFilter{SubjectID: "subject-1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 60.0, results[0].MarksObtained)
	assert.Equal(t, "Internal 2", results[1].ExamName)
	assert.Equal(t, 35.0, results[0].PassingMarks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByStudentExamTypeFilter(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	examDate := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(resultDetailTestColumns).
		AddRow("res-3", "student-1", "exam-3", 82.0, "", "teacher-1", time.Now(), time.Now(), "Final", "final", examDate, "subject-1", 100.0, 40.0)
	mock.ExpectQuery(`AND e\.type =`).
		WithArgs("student-1", "final").
		WillReturnRows(rows)

	results, err := repo.ListByStudent(context.Background(), "student-1", models.ResultFilter{ExamType: models.ExamFinal})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.ExamFinal, results[0].ExamType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
