package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type fakeExamRepo struct {
	exams map[string]models.Examination
}

func (f *fakeExamRepo) Create(ctx context.Context, exam *models.Examination) error {
	if f.exams == nil {
		f.exams = make(map[string]models.Examination)
	}
	if exam.ID == "" {
		exam.ID = "exam-1"
	}
	f.exams[exam.ID] = *exam
	return nil
}

func (f *fakeExamRepo) FindByID(ctx context.Context, id string) (*models.Examination, error) {
	exam, ok := f.exams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &exam, nil
}

func (f *fakeExamRepo) List(ctx context.Context, classID, subjectID string) ([]models.Examination, error) {
	var out []models.Examination
	for _, exam := range f.exams {
		out = append(out, exam)
	}
	return out, nil
}

func (f *fakeExamRepo) Update(ctx context.Context, exam *models.Examination) error {
	f.exams[exam.ID] = *exam
	return nil
}

func (f *fakeExamRepo) Delete(ctx context.Context, id string) error {
	delete(f.exams, id)
	return nil
}

type fakeResultRepo struct {
	results map[string]models.Result
	details []models.ResultDetail
}

func (f *fakeResultRepo) Upsert(ctx context.Context, result *models.Result) error {
	if f.results == nil {
		f.results = make(map[string]models.Result)
	}
	key := result.StudentID + "|" + result.ExaminationID
	if existing, ok := f.results[key]; ok {
		result.ID = existing.ID
	} else if result.ID == "" {
		result.ID = "result-" + key
	}
	f.results[key] = *result
	return nil
}

func (f *fakeResultRepo) ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error) {
	return f.details, nil
}

func (f *fakeResultRepo) ListByExamination(ctx context.Context, examinationID string) ([]models.ResultDetail, error) {
	return f.details, nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	return nil, sql.ErrNoRows
}

type recordingCacheRepo struct {
	invalidated []string
}

func (r *recordingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (r *recordingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (r *recordingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	r.invalidated = append(r.invalidated, pattern)
	return nil
}

func newResultService(exams *fakeExamRepo, results *fakeResultRepo, checker *fakeTeacherChecker, cacheRepo *recordingCacheRepo) *ResultService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	return NewResultService(exams, results, checker, cache, nil, nil)
}

func seedExam(total, passing float64) *fakeExamRepo {
	return &fakeExamRepo{exams: map[string]models.Examination{
		"exam-1": {
			ID:           "exam-1",
			Name:         "Mid Term",
			Type:         models.ExamMidTerm,
			SubjectID:    "subject-1",
			ClassID:      "class-1",
			Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
			TotalMarks:   total,
			PassingMarks: passing,
		},
	}}
}

func TestCreateExamValidation(t *testing.T) {
	svc := newResultService(&fakeExamRepo{}, &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	_, err := svc.CreateExam(context.Background(), ExamRequest{
		Name: "Final", Type: "oral", SubjectID: "subject-1", ClassID: "class-1",
		Date: time.Now(), TotalMarks: 100,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.CreateExam(context.Background(), ExamRequest{
		Name: "Final", Type: models.ExamFinal, SubjectID: "subject-1", ClassID: "class-1",
		Date: time.Now(), TotalMarks: 50, PassingMarks: 60,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestUpdateExam(t *testing.T) {
	exams := seedExam(100, 35)
	svc := newResultService(exams, &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	updated, err := svc.UpdateExam(context.Background(), "exam-1", ExamRequest{
		Name: "Mid Term (rescheduled)", Type: models.ExamMidTerm,
		SubjectID: "subject-1", ClassID: "class-1",
		Date: time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC), TotalMarks: 80, PassingMarks: 28,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mid Term (rescheduled)", updated.Name)
	assert.Equal(t, float64(80), exams.exams["exam-1"].TotalMarks)

	// Subject and class are fixed once results may exist against them.
	_, err = svc.UpdateExam(context.Background(), "exam-1", ExamRequest{
		Name: "Mid Term", Type: models.ExamMidTerm,
		SubjectID: "subject-2", ClassID: "class-1",
		Date: time.Now(), TotalMarks: 80, PassingMarks: 28,
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.UpdateExam(context.Background(), "missing", ExamRequest{
		Name: "Mid Term", Type: models.ExamMidTerm,
		SubjectID: "subject-1", ClassID: "class-1",
		Date: time.Now(), TotalMarks: 80, PassingMarks: 28,
	})
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestDeleteExam(t *testing.T) {
	exams := seedExam(100, 35)
	svc := newResultService(exams, &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	require.NoError(t, svc.DeleteExam(context.Background(), "exam-1"))
	assert.Empty(t, exams.exams)

	err := svc.DeleteExam(context.Background(), "exam-1")
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestEnterMarksDerivesGrade(t *testing.T) {
	exams := seedExam(100, 35)
	results := &fakeResultRepo{}
	svc := newResultService(exams, results, &fakeTeacherChecker{}, nil)

	detail, err := svc.EnterMarks(context.Background(), adminActor(), EnterMarksRequest{
		StudentID: "student-1", ExaminationID: "exam-1", MarksObtained: 84.5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 84.5, detail.Percentage, 0.001)
	assert.Equal(t, "A", detail.Grade)
	assert.True(t, detail.Passed)
	assert.Equal(t, "Mid Term", detail.ExamName)
}

func TestEnterMarksRejectsAboveTotal(t *testing.T) {
	svc := newResultService(seedExam(50, 20), &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	_, err := svc.EnterMarks(context.Background(), adminActor(), EnterMarksRequest{
		StudentID: "student-1", ExaminationID: "exam-1", MarksObtained: 51,
	})
	assertErrorCode(t, err, appErrors.ErrInvalidInput.Code)
}

func TestEnterMarksUnassignedTeacherForbidden(t *testing.T) {
	svc := newResultService(seedExam(100, 35), &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	_, err := svc.EnterMarks(context.Background(), teacherActor("teacher-1"), EnterMarksRequest{
		StudentID: "student-1", ExaminationID: "exam-1", MarksObtained: 40,
	})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestEnterMarksOverwriteInvalidatesCache(t *testing.T) {
	results := &fakeResultRepo{}
	cacheRepo := &recordingCacheRepo{}
	svc := newResultService(seedExam(100, 35), results, &fakeTeacherChecker{}, cacheRepo)

	_, err := svc.EnterMarks(context.Background(), adminActor(), EnterMarksRequest{
		StudentID: "student-1", ExaminationID: "exam-1", MarksObtained: 60,
	})
	require.NoError(t, err)

	detail, err := svc.EnterMarks(context.Background(), adminActor(), EnterMarksRequest{
		StudentID: "student-1", ExaminationID: "exam-1", MarksObtained: 72,
	})
	require.NoError(t, err)
	assert.Equal(t, "B+", detail.Grade)

	require.Len(t, results.results, 1)
	assert.Equal(t, 72.0, results.results["student-1|exam-1"].MarksObtained)
	assert.Equal(t, []string{"performance:student-1*", "performance:student-1*"}, cacheRepo.invalidated)
}

func TestStudentResultsSelfGate(t *testing.T) {
	svc := newResultService(&fakeExamRepo{}, &fakeResultRepo{}, &fakeTeacherChecker{}, nil)

	_, err := svc.StudentResults(context.Background(), studentActor("student-1"), "student-2", models.ResultFilter{})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestStudentResultsDecorated(t *testing.T) {
	results := &fakeResultRepo{details: []models.ResultDetail{
		{
			Result:       models.Result{ID: "result-1", StudentID: "student-1", MarksObtained: 45},
			ExamName:     "Quiz 1",
			TotalMarks:   60,
			PassingMarks: 21,
		},
		{
			Result:       models.Result{ID: "result-2", StudentID: "student-1", MarksObtained: 18},
			ExamName:     "Quiz 2",
			TotalMarks:   60,
			PassingMarks: 21,
		},
	}}
	svc := newResultService(&fakeExamRepo{}, results, &fakeTeacherChecker{}, nil)

	out, err := svc.StudentResults(context.Background(), studentActor("student-1"), "student-1", models.ResultFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 75.0, out[0].Percentage, 0.001)
	assert.Equal(t, "B+", out[0].Grade)
	assert.True(t, out[0].Passed)
	assert.False(t, out[1].Passed)
}
