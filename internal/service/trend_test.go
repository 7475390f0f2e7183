package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-college/college-api/internal/models"
)

func TestPredictTrendImproving(t *testing.T) {
	prediction := PredictTrend([]float64{60, 65, 70})

	require.False(t, prediction.InsufficientData)
	assert.Equal(t, 65.0, prediction.CurrentAverage)
	assert.Equal(t, 5.0, prediction.Slope)
	assert.Equal(t, models.TrendImproving, prediction.Trend)
	assert.Equal(t, []float64{75, 80, 85}, prediction.Predictions)
	assert.Equal(t, "Good progress! Continue with current study approach.", prediction.Recommendation)
}

func TestPredictTrendDeclining(t *testing.T) {
	prediction := PredictTrend([]float64{90, 85, 80, 75})

	require.False(t, prediction.InsufficientData)
	assert.Equal(t, models.TrendDeclining, prediction.Trend)
	assert.Equal(t, 82.5, prediction.CurrentAverage)
	assert.Equal(t, "Good performance but showing decline. Review study methods.", prediction.Recommendation)
}

func TestPredictTrendStable(t *testing.T) {
	prediction := PredictTrend([]float64{85, 85, 85})

	require.False(t, prediction.InsufficientData)
	assert.Equal(t, models.TrendStable, prediction.Trend)
	assert.Equal(t, []float64{85, 85, 85}, prediction.Predictions)
	assert.Equal(t, "Consistent excellent performance. Consider challenging yourself more.", prediction.Recommendation)
}

func TestPredictTrendInsufficientData(t *testing.T) {
	assert.True(t, PredictTrend(nil).InsufficientData)
	assert.True(t, PredictTrend([]float64{50}).InsufficientData)
	assert.True(t, PredictTrend([]float64{50, 48}).InsufficientData)
}

func TestPredictTrendLowAverage(t *testing.T) {
	prediction := PredictTrend([]float64{40, 45, 50})

	assert.Equal(t, models.TrendImproving, prediction.Trend)
	assert.Equal(t, "Performance needs improvement. Consider additional study support.", prediction.Recommendation)
}

func TestRecommendationTable(t *testing.T) {
	cases := []struct {
		average float64
		trend   models.TrendDirection
		want    string
	}{
		{85, models.TrendImproving, "Excellent work! Keep up the momentum."},
		{85, models.TrendDeclining, "Good performance but showing decline. Review study methods."},
		{85, models.TrendStable, "Consistent excellent performance. Consider challenging yourself more."},
		{70, models.TrendImproving, "Good progress! Continue with current study approach."},
		{70, models.TrendDeclining, "Performance declining. Consider seeking help from teachers."},
		{70, models.TrendStable, "Average performance. Focus on weak subjects."},
		{50, models.TrendImproving, "Performance needs improvement. Consider additional study support."},
		{50, models.TrendDeclining, "Performance needs improvement. Consider additional study support."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, recommendationFor(tc.average, tc.trend))
	}
}
