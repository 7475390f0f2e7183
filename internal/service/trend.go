package service

import (
	"math"

	"github.com/smart-college/college-api/internal/models"
)

// minTrendPoints is the smallest exam history a regression is fitted on.
const minTrendPoints = 3

// PredictTrend fits a least-squares line through a student's chronological
// exam percentages and extrapolates the next three exams. Fewer than three
// data points yields an insufficient-data result.
func PredictTrend(percentages []float64) models.TrendPrediction {
	n := len(percentages)
	if n < minTrendPoints {
		return models.TrendPrediction{InsufficientData: true}
	}

	var sumX, sumY float64
	for i, y := range percentages {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i, y := range percentages {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	slope := num / den
	intercept := meanY - slope*meanX

	predictions := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		x := float64(n + i)
		predictions = append(predictions, round2(intercept+slope*x))
	}

	trend := models.TrendStable
	switch {
	case slope > 0:
		trend = models.TrendImproving
	case slope < 0:
		trend = models.TrendDeclining
	}

	average := round2(meanY)
	return models.TrendPrediction{
		CurrentAverage: average,
		Slope:          round2(slope),
		Trend:          trend,
		Predictions:    predictions,
		Recommendation: recommendationFor(average, trend),
	}
}

func recommendationFor(average float64, trend models.TrendDirection) string {
	switch {
	case average >= 80:
		switch trend {
		case models.TrendImproving:
			return "Excellent work! Keep up the momentum."
		case models.TrendDeclining:
			return "Good performance but showing decline. Review study methods."
		default:
			return "Consistent excellent performance. Consider challenging yourself more."
		}
	case average >= 60:
		switch trend {
		case models.TrendImproving:
			return "Good progress! Continue with current study approach."
		case models.TrendDeclining:
			return "Performance declining. Consider seeking help from teachers."
		default:
			return "Average performance. Focus on weak subjects."
		}
	default:
		return "Performance needs improvement. Consider additional study support."
	}
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
