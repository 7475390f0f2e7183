package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type storingCacheRepo struct {
	entries map[string][]byte
}

func (s *storingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *storingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.entries == nil {
		s.entries = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = payload
	return nil
}

func (s *storingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

type stubResultHistory struct {
	details []models.ResultDetail
	calls   int
}

func (s *stubResultHistory) ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error) {
	s.calls++
	return s.details, nil
}

func historyOf(marks ...float64) *stubResultHistory {
	history := &stubResultHistory{}
	for _, m := range marks {
		history.details = append(history.details, models.ResultDetail{
			Result:     models.Result{MarksObtained: m},
			TotalMarks: 100,
		})
	}
	return history
}

func TestPerformanceReportTrend(t *testing.T) {
	history := historyOf(60, 65, 70)
	svc := NewPerformanceService(history, nil, nil, time.Minute, nil)

	report, err := svc.Report(context.Background(), adminActor(), "student-1", "")
	require.NoError(t, err)
	assert.Equal(t, 3, report.ExamCount)
	assert.Equal(t, []float64{60, 65, 70}, report.Percentages)
	assert.Equal(t, models.TrendImproving, report.Prediction.Trend)
	assert.Equal(t, 65.0, report.Prediction.CurrentAverage)
	assert.Equal(t, []float64{75, 80, 85}, report.Prediction.Predictions)
}

func TestPerformanceReportInsufficientData(t *testing.T) {
	history := historyOf(88)
	svc := NewPerformanceService(history, nil, nil, time.Minute, nil)

	report, err := svc.Report(context.Background(), adminActor(), "student-1", "")
	require.NoError(t, err)
	assert.True(t, report.Prediction.InsufficientData)
	assert.Empty(t, report.Prediction.Predictions)
}

func TestPerformanceReportSelfGate(t *testing.T) {
	svc := NewPerformanceService(historyOf(), nil, nil, time.Minute, nil)

	_, err := svc.Report(context.Background(), studentActor("student-1"), "student-2", "")
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Report(context.Background(), studentActor("student-1"), "student-1", "")
	assert.NoError(t, err)
}

func TestPerformanceReportCached(t *testing.T) {
	history := historyOf(60, 65, 70)
	cache := NewCacheService(&storingCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewPerformanceService(history, cache, nil, time.Minute, nil)

	first, err := svc.Report(context.Background(), adminActor(), "student-1", "")
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.Report(context.Background(), adminActor(), "student-1", "")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Prediction, second.Prediction)
	assert.Equal(t, 1, history.calls)
}

func TestPerformanceCacheKeyIncludesSubject(t *testing.T) {
	assert.Equal(t, "performance:student-1", performanceCacheKey("student-1", ""))
	assert.Equal(t, "performance:student-1:subject-2", performanceCacheKey("student-1", "subject-2"))
}
