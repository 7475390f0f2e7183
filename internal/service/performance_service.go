package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type performanceResultRepository interface {
	ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error)
}

// PerformanceService produces trend predictions over a student's exam
// history, with cache integration so repeated reads skip the regression.
type PerformanceService struct {
	results performanceResultRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewPerformanceService constructs a PerformanceService.
func NewPerformanceService(results performanceResultRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{results: results, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Report builds the performance snapshot for a student: chronological exam
// percentages, the fitted trend and a recommendation. Students may only
// request their own report.
func (s *PerformanceService) Report(ctx context.Context, actor models.Actor, studentID string, subjectID string) (*models.PerformanceReport, error) {
	if actor.Role == models.RoleStudent {
		if err := requireSelfStudent(actor, studentID); err != nil {
			return nil, err
		}
	}

	cacheKey := performanceCacheKey(studentID, subjectID)
	var cached models.PerformanceReport
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			cached.FromCache = true
			return &cached, nil
		}
	}

	start := time.Now()
	results, err := s.results.ListByStudent(ctx, studentID, models.ResultFilter{SubjectID: subjectID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam history")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("performance_history", time.Since(start))
	}

	percentages := make([]float64, 0, len(results))
	for _, result := range results {
		if result.TotalMarks <= 0 {
			continue
		}
		percentage, err := Percentage(result.MarksObtained, result.TotalMarks)
		if err != nil {
			s.logger.Warn("skipping result with out-of-range marks", zap.String("result_id", result.ID), zap.Error(err))
			continue
		}
		percentages = append(percentages, percentage)
	}

	report := &models.PerformanceReport{
		StudentID:   studentID,
		ExamCount:   len(percentages),
		Percentages: percentages,
		Prediction:  PredictTrend(percentages),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.ttl); err != nil {
			s.logger.Warn("failed to cache performance report", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return report, nil
}

func performanceCacheKey(studentID, subjectID string) string {
	key := "performance:" + studentID
	if subjectID != "" {
		key += ":" + subjectID
	}
	return key
}
