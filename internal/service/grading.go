package service

import (
	"math"

	appErrors "github.com/smart-college/college-api/pkg/errors"
)

// Percentage converts obtained marks into a percentage rounded to two
// decimal places (banker's rounding).
func Percentage(marks, total float64) (float64, error) {
	if total <= 0 {
		return 0, appErrors.Clone(appErrors.ErrInvalidInput, "total marks must be positive")
	}
	if marks < 0 {
		return 0, appErrors.Clone(appErrors.ErrInvalidInput, "marks cannot be negative")
	}
	if marks > total {
		return 0, appErrors.Clone(appErrors.ErrInvalidInput, "marks cannot exceed total marks")
	}
	return math.RoundToEven(marks/total*10000) / 100, nil
}

// GradeFor maps a percentage onto the letter grade scale.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B+"
	case percentage >= 60:
		return "B"
	case percentage >= 50:
		return "C"
	default:
		return "F"
	}
}
